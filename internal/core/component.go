package core

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ParseTier records which parsing strategy produced a component result.
type ParseTier int

const (
	TierNone    ParseTier = 0
	TierClean   ParseTier = 1 // cleaned and repaired structured reply
	TierRaw     ParseTier = 2 // unmodified structured reply
	TierPattern ParseTier = 3 // regular-expression recovery
	TierDefault ParseTier = 4 // deterministic placeholders
)

// String returns a short label for the tier.
func (t ParseTier) String() string {
	switch t {
	case TierClean:
		return "clean"
	case TierRaw:
		return "raw"
	case TierPattern:
		return "pattern"
	case TierDefault:
		return "default"
	default:
		return "none"
	}
}

// Degraded reports whether the tier lost structured fidelity.
func (t ParseTier) Degraded() bool {
	return t == TierPattern || t == TierDefault
}

// TierAttempt records a rejected parsing attempt.
type TierAttempt struct {
	Tier   ParseTier `json:"tier"`
	Step   string    `json:"step,omitempty"`
	Reason string    `json:"reason"`
}

// ComponentResult is the canonical parser output: a suggested name and a
// summary for every declared component, in declared order.
type ComponentResult struct {
	Names     *orderedmap.OrderedMap[string, string] `json:"suggested_names"`
	Summaries *orderedmap.OrderedMap[string, string] `json:"component_summaries"`
	Tier      ParseTier                              `json:"tier"`
	Attempts  []TierAttempt                          `json:"attempts,omitempty"`
}

// NewComponentResult creates an empty result for the given tier.
func NewComponentResult(tier ParseTier) *ComponentResult {
	return &ComponentResult{
		Names:     orderedmap.New[string, string](),
		Summaries: orderedmap.New[string, string](),
		Tier:      tier,
	}
}

// Set stores the name and summary of a component. Re-setting a component
// keeps its original position.
func (r *ComponentResult) Set(component, name, summary string) {
	r.Names.Set(component, name)
	r.Summaries.Set(component, summary)
}

// Len returns the number of components.
func (r *ComponentResult) Len() int {
	if r == nil || r.Names == nil {
		return 0
	}
	return r.Names.Len()
}

// Components returns component identifiers in order.
func (r *ComponentResult) Components() []string {
	if r == nil || r.Names == nil {
		return nil
	}
	keys := make([]string, 0, r.Names.Len())
	for pair := r.Names.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Name returns the suggested name of a component.
func (r *ComponentResult) Name(component string) string {
	v, _ := r.Names.Get(component)
	return v
}

// Summary returns the interpretation of a component.
func (r *ComponentResult) Summary(component string) string {
	v, _ := r.Summaries.Get(component)
	return v
}

// Equal reports whether two results hold the same components, names,
// summaries, order and tier.
func (r *ComponentResult) Equal(other *ComponentResult) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Tier != other.Tier || r.Len() != other.Len() {
		return false
	}
	a, b := r.Components(), other.Components()
	for i := range a {
		if a[i] != b[i] || r.Name(a[i]) != other.Name(b[i]) || r.Summary(a[i]) != other.Summary(b[i]) {
			return false
		}
	}
	return true
}

// MatchesComponents checks that the result covers exactly the declared
// components in the declared order.
func (r *ComponentResult) MatchesComponents(components []string) error {
	got := r.Components()
	if len(got) != len(components) {
		return fmt.Errorf("result has %d components, want %d", len(got), len(components))
	}
	if r.Summaries.Len() != len(components) {
		return fmt.Errorf("result has %d summaries, want %d", r.Summaries.Len(), len(components))
	}
	for i, c := range components {
		if got[i] != c {
			return fmt.Errorf("component %d is %q, want %q", i+1, got[i], c)
		}
		if _, ok := r.Summaries.Get(c); !ok {
			return fmt.Errorf("component %q has no summary", c)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (r *ComponentResult) Clone() *ComponentResult {
	out := NewComponentResult(r.Tier)
	for _, c := range r.Components() {
		out.Set(c, r.Name(c), r.Summary(c))
	}
	out.Attempts = append([]TierAttempt(nil), r.Attempts...)
	return out
}

// ComponentEntry is one component's name and interpretation.
type ComponentEntry struct {
	Component string `json:"component"`
	Name      string `json:"name"`
	Summary   string `json:"interpretation"`
}

// Entries returns the components as a list, convenient for templates.
func (r *ComponentResult) Entries() []ComponentEntry {
	out := make([]ComponentEntry, 0, r.Len())
	for _, c := range r.Components() {
		out = append(out, ComponentEntry{Component: c, Name: r.Name(c), Summary: r.Summary(c)})
	}
	return out
}

// MarshalJSON emits the ordered maps plus the tier label.
func (r *ComponentResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Names     *orderedmap.OrderedMap[string, string] `json:"suggested_names"`
		Summaries *orderedmap.OrderedMap[string, string] `json:"component_summaries"`
		Tier      ParseTier                              `json:"tier"`
		TierLabel string                                 `json:"tier_label"`
		Attempts  []TierAttempt                          `json:"attempts,omitempty"`
	}{r.Names, r.Summaries, r.Tier, r.Tier.String(), r.Attempts})
}
