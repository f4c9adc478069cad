// Package analysis defines the per-kind handler contract, the registry that
// maps analysis kinds to handlers, and the helpers shared by every kind.
package analysis

import (
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// Data is the normalized, kind-specific record built from one request's
// input. It is immutable once built.
type Data interface {
	// Kind returns the analysis kind the data belongs to.
	Kind() core.AnalysisKind
	// Components returns the declared component identifiers in order.
	Components() []string
}

// BuildDataFunc turns a raw structure into analysis data.
type BuildDataFunc func(input interface{}, opts core.Options) (Data, error)

// SystemPromptFunc builds the system prompt for a kind.
type SystemPromptFunc func(opts core.Options) (string, error)

// MainPromptFunc builds the main prompt from analysis data.
type MainPromptFunc func(data Data, opts core.Options) (string, error)

// ValidateResponseFunc checks a candidate JSON object against the declared
// components. It returns an error when any component is missing or mistyped.
type ValidateResponseFunc func(candidate []byte, data Data) (*core.ComponentResult, error)

// ExtractByPatternFunc recovers component names and summaries from
// unstructured text. ok is false when nothing recognizable was found.
type ExtractByPatternFunc func(raw string, data Data) (result *core.ComponentResult, ok bool)

// DefaultResultFunc synthesizes deterministic placeholders.
type DefaultResultFunc func(data Data) *core.ComponentResult

// FitSummaryFunc computes diagnostics from analysis data alone.
type FitSummaryFunc func(data Data) Diagnostics

// BuildReportFunc renders an interpretation as a markdown document.
type BuildReportFunc func(res *Interpretation, opts ReportOptions) (string, error)

// HandlerSet groups every handler a kind must supply.
type HandlerSet struct {
	BuildData        BuildDataFunc
	SystemPrompt     SystemPromptFunc
	MainPrompt       MainPromptFunc
	ValidateResponse ValidateResponseFunc
	ExtractByPattern ExtractByPatternFunc
	DefaultResult    DefaultResultFunc
	FitSummary       FitSummaryFunc
	BuildReport      BuildReportFunc
}

// slots lists every handler with its name, in declaration order.
func (h HandlerSet) slots() []handlerSlot {
	return []handlerSlot{
		{"build_data", h.BuildData},
		{"system_prompt", h.SystemPrompt},
		{"main_prompt", h.MainPrompt},
		{"validate_response", h.ValidateResponse},
		{"extract_by_pattern", h.ExtractByPattern},
		{"default_result", h.DefaultResult},
		{"fit_summary", h.FitSummary},
		{"build_report", h.BuildReport},
	}
}

// Missing returns the names of unset handler slots.
func (h HandlerSet) Missing() []string {
	var missing []string
	for _, s := range h.slots() {
		if s.isNil() {
			missing = append(missing, s.name)
		}
	}
	return missing
}

// ReportOptions controls report construction.
type ReportOptions struct {
	// HeadingLevel is the depth of the top-level heading (1-6).
	HeadingLevel int
	// Compact omits per-component value tables.
	Compact bool
}
