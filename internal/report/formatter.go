// Package report turns interpretations into markdown or styled console
// output.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// DefaultWidth is the console word-wrap width.
const DefaultWidth = 100

// Options controls formatting.
type Options struct {
	Format       core.OutputFormat
	HeadingLevel int
	Compact      bool
	// Color enables ANSI styling for the cli format.
	Color bool
	Width int
}

// OptionsFor derives formatting options from request options.
func OptionsFor(opts core.Options, color bool) Options {
	return Options{
		Format:       opts.OutputFormat,
		HeadingLevel: opts.HeadingLevel,
		Color:        color,
	}
}

// Formatter renders interpretations through their kind's report handler.
type Formatter struct {
	registry *analysis.Registry
}

// NewFormatter creates a formatter over registry.
func NewFormatter(registry *analysis.Registry) *Formatter {
	return &Formatter{registry: registry}
}

// Format renders res. The markdown format returns the kind's report as is;
// cli renders it for a terminal below a badge describing the parse tier.
func (f *Formatter) Format(res *analysis.Interpretation, opts Options) (string, error) {
	if res == nil {
		return "", core.ErrValidation(core.CodeInvalidInput, "no interpretation to format")
	}
	if opts.HeadingLevel == 0 {
		opts.HeadingLevel = core.MinHeadingLevel
	}
	if opts.HeadingLevel < core.MinHeadingLevel || opts.HeadingLevel > core.MaxHeadingLevel {
		return "", core.ErrInvalidOption("heading_level",
			fmt.Sprintf("between %d and %d", core.MinHeadingLevel, core.MaxHeadingLevel), opts.HeadingLevel)
	}

	hs, err := f.registry.Lookup(res.Kind)
	if err != nil {
		return "", err
	}
	md, err := hs.BuildReport(res, analysis.ReportOptions{HeadingLevel: opts.HeadingLevel, Compact: opts.Compact})
	if err != nil {
		return "", fmt.Errorf("building %s report: %w", res.Kind, err)
	}

	switch opts.Format {
	case core.FormatMarkdown:
		return md, nil
	case core.FormatCLI, "":
		return renderConsole(res, md, opts)
	default:
		return "", core.ErrInvalidOption("output_format", `"cli" or "markdown"`, opts.Format)
	}
}

func renderConsole(res *analysis.Interpretation, md string, opts Options) (string, error) {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	style := styles.NoTTYStyleConfig
	if opts.Color {
		style = styles.DraculaStyleConfig
		style.Code = ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:           stringPtr("229"),
				BackgroundColor: stringPtr(""),
			},
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	body, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}

	return Badge(res, opts.Color) + "\n" + strings.TrimLeft(body, "\n"), nil
}

var (
	badgeBase = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	badgeStyles = map[core.ParseTier]lipgloss.Style{
		core.TierClean:   badgeBase.Foreground(lipgloss.Color("#0f172a")).Background(lipgloss.Color("#22c55e")),
		core.TierRaw:     badgeBase.Foreground(lipgloss.Color("#0f172a")).Background(lipgloss.Color("#84cc16")),
		core.TierPattern: badgeBase.Foreground(lipgloss.Color("#0f172a")).Background(lipgloss.Color("#f59e0b")),
		core.TierDefault: badgeBase.Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#dc2626")),
	}
)

// Badge describes how the result was obtained.
func Badge(res *analysis.Interpretation, color bool) string {
	tier := res.Tier()
	text := fmt.Sprintf("%s · parsed: %s", res.Kind.Label(), tier)
	if res.Placeholder() {
		text = fmt.Sprintf("%s · PLACEHOLDERS: the reply could not be parsed", res.Kind.Label())
	} else if tier.Degraded() {
		text += " (recovered by pattern matching)"
	}

	if !color {
		return "[" + text + "]"
	}
	style, ok := badgeStyles[tier]
	if !ok {
		style = badgeBase
	}
	return style.Render(text)
}

func stringPtr(s string) *string {
	return &s
}
