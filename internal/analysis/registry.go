package analysis

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

type handlerSlot struct {
	name string
	fn   interface{}
}

func (s handlerSlot) isNil() bool {
	v := reflect.ValueOf(s.fn)
	return !v.IsValid() || v.IsNil()
}

// pointer returns the code pointer of the handler, used to compare handler
// sets. Function values are not comparable with ==.
func (s handlerSlot) pointer() uintptr {
	if s.isNil() {
		return 0
	}
	return reflect.ValueOf(s.fn).Pointer()
}

// Registry maps analysis kinds to handler sets. Each kind is written at most
// once and is never removed; lookups are safe for concurrent use.
type Registry struct {
	handlers map[core.AnalysisKind]HandlerSet
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[core.AnalysisKind]HandlerSet),
	}
}

// Register adds the handler set for a kind. It fails when the kind is not
// part of the kind enumeration, when any handler is missing, or when the
// kind is already registered with different handlers. Registering an
// identical set again is a no-op.
func (r *Registry) Register(kind core.AnalysisKind, hs HandlerSet) error {
	if !kind.IsKnown() {
		return core.ErrConfig(core.CodeUnknownKind,
			fmt.Sprintf("cannot register %q: not a known analysis kind (known: %s)", kind, joinKinds(core.KnownKinds()))).
			WithDetail("kind", string(kind))
	}
	if missing := hs.Missing(); len(missing) > 0 {
		return core.ErrConfig(core.CodeIncompleteHandlers,
			fmt.Sprintf("handler set for %q is incomplete: missing %s", kind, strings.Join(missing, ", "))).
			WithDetail("kind", string(kind)).
			WithDetail("missing", missing)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.handlers[kind]; ok {
		if sameHandlers(existing, hs) {
			return nil
		}
		return core.ErrConfig(core.CodeDuplicateKind,
			fmt.Sprintf("analysis kind %q is already registered with different handlers", kind)).
			WithDetail("kind", string(kind))
	}

	r.handlers[kind] = hs
	return nil
}

// MustRegister is like Register but panics on error. Intended for start-up
// wiring of built-in kinds.
func (r *Registry) MustRegister(kind core.AnalysisKind, hs HandlerSet) {
	if err := r.Register(kind, hs); err != nil {
		panic(err)
	}
}

// Lookup returns the handler set of a kind. Known kinds without handlers
// fail with a not-implemented error; anything else fails with an error
// listing the registered kinds.
func (r *Registry) Lookup(kind core.AnalysisKind) (HandlerSet, error) {
	r.mu.RLock()
	hs, ok := r.handlers[kind]
	r.mu.RUnlock()
	if ok {
		return hs, nil
	}

	if kind.IsKnown() {
		return HandlerSet{}, core.ErrNotImplemented(kind)
	}

	registered := r.Kinds()
	msg := fmt.Sprintf("unregistered analysis kind %q; registered kinds: %s", kind, joinKinds(registered))
	if s := suggestKind(string(kind), registered); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return HandlerSet{}, core.ErrConfig(core.CodeUnregisteredKind, msg).
		WithDetail("kind", string(kind)).
		WithDetail("registered", registered)
}

// Has reports whether a kind is registered.
func (r *Registry) Has(kind core.AnalysisKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[kind]
	return ok
}

// Kinds returns the registered kinds sorted by identifier.
func (r *Registry) Kinds() []core.AnalysisKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]core.AnalysisKind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func sameHandlers(a, b HandlerSet) bool {
	as, bs := a.slots(), b.slots()
	for i := range as {
		if as[i].pointer() != bs[i].pointer() {
			return false
		}
	}
	return true
}

func suggestKind(input string, registered []core.AnalysisKind) string {
	names := make([]string, len(registered))
	for i, k := range registered {
		names[i] = string(k)
	}
	return Suggest(input, names)
}

// Suggest returns the closest candidate to input, or "" when nothing is
// similar. Matching is attempted in both directions so that both
// abbreviations and over-long identifiers find a candidate.
func Suggest(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || len(candidates) == 0 {
		return ""
	}

	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}

	if matches := fuzzy.Find(input, lowered); len(matches) > 0 {
		return candidates[matches[0].Index]
	}

	best, bestScore := "", 0
	for i, c := range lowered {
		matches := fuzzy.Find(c, []string{input})
		if len(matches) > 0 && (best == "" || matches[0].Score > bestScore) {
			best, bestScore = candidates[i], matches[0].Score
		}
	}
	return best
}

func joinKinds(kinds []core.AnalysisKind) string {
	if len(kinds) == 0 {
		return "(none)"
	}
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
