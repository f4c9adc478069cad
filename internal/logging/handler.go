package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// SanitizingHandler redacts credentials from every message and string
// attribute before passing records on. Records logged with a context that
// carries a request ID gain a request_id attribute unless the logger is
// already tagged with one.
type SanitizingHandler struct {
	next      slog.Handler
	sanitizer *Sanitizer
	tagged    bool
}

// NewSanitizingHandler wraps next.
func NewSanitizingHandler(next slog.Handler, sanitizer *Sanitizer) *SanitizingHandler {
	return &SanitizingHandler{next: next, sanitizer: sanitizer}
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.sanitizer.Sanitize(r.Message), r.PC)

	tagged := h.tagged
	r.Attrs(func(a slog.Attr) bool {
		tagged = tagged || a.Key == "request_id"
		out.AddAttrs(h.redact(a))
		return true
	})
	if !tagged && ctx != nil {
		if id := RequestIDFromContext(ctx); id != "" {
			out.AddAttrs(slog.String("request_id", id))
		}
	}
	return h.next.Handle(ctx, out)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, 0, len(attrs))
	tagged := h.tagged
	for _, a := range attrs {
		tagged = tagged || a.Key == "request_id"
		clean = append(clean, h.redact(a))
	}
	return &SanitizingHandler{next: h.next.WithAttrs(clean), sanitizer: h.sanitizer, tagged: tagged}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name), sanitizer: h.sanitizer, tagged: h.tagged}
}

func (h *SanitizingHandler) redact(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.sanitizer.Sanitize(v.String()))
	case slog.KindGroup:
		group := v.Group()
		clean := make([]slog.Attr, len(group))
		for i, g := range group {
			clean[i] = h.redact(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return slog.String(a.Key, h.sanitizer.Sanitize(x.Error()))
		case fmt.Stringer:
			return slog.String(a.Key, h.sanitizer.Sanitize(x.String()))
		}
	}
	return a
}

// maxPrettyValue bounds attribute values on the console. Prompts and
// replies are logged whole at debug level.
const maxPrettyValue = 160

// PrettyHandler writes compact coloured lines for interactive terminals:
//
//	15:04:05 INF interpretation complete kind=fa tier=clean
type PrettyHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
	styles prettyStyles
}

type prettyStyles struct {
	time, key lipgloss.Style
	levels    map[slog.Level]lipgloss.Style
}

func newPrettyStyles(w io.Writer) prettyStyles {
	r := lipgloss.NewRenderer(w)
	return prettyStyles{
		time: r.NewStyle().Faint(true),
		key:  r.NewStyle().Foreground(lipgloss.Color("6")),
		levels: map[slog.Level]lipgloss.Style{
			slog.LevelDebug: r.NewStyle().Foreground(lipgloss.Color("8")),
			slog.LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("4")),
			slog.LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
			slog.LevelError: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// NewPrettyHandler creates a handler writing to w.
func NewPrettyHandler(w io.Writer, level slog.Level) *PrettyHandler {
	return &PrettyHandler{mu: &sync.Mutex{}, w: w, level: level, styles: newPrettyStyles(w)}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(h.styles.time.Render(r.Time.Format("15:04:05")))
	b.WriteByte(' ')
	b.WriteString(h.levelLabel(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&b, h.groups, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, h.groups, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

func (h *PrettyHandler) levelLabel(level slog.Level) string {
	label := map[slog.Level]string{
		slog.LevelDebug: "DBG",
		slog.LevelInfo:  "INF",
		slog.LevelWarn:  "WRN",
		slog.LevelError: "ERR",
	}[level]
	if label == "" {
		return level.String()
	}
	return h.styles.levels[level].Render(label)
}

func (h *PrettyHandler) writeAttr(b *strings.Builder, groups []string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		inner := append(append([]string(nil), groups...), a.Key)
		for _, g := range v.Group() {
			h.writeAttr(b, inner, g)
		}
		return
	}

	key := strings.Join(append(append([]string(nil), groups...), a.Key), ".")
	value := strings.ReplaceAll(fmt.Sprint(v.Any()), "\n", `\n`)
	if len(value) > maxPrettyValue {
		value = value[:maxPrettyValue] + "..."
	}
	fmt.Fprintf(b, " %s=%s", h.styles.key.Render(key), value)
}
