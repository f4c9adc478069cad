package fa

import "github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"

// Handlers returns the factor analysis handler set.
func Handlers() analysis.HandlerSet {
	return analysis.HandlerSet{
		BuildData:        Build,
		SystemPrompt:     SystemPrompt,
		MainPrompt:       MainPrompt,
		ValidateResponse: ValidateResponse,
		ExtractByPattern: ExtractByPattern,
		DefaultResult:    DefaultResult,
		FitSummary:       FitSummary,
		BuildReport:      BuildReport,
	}
}
