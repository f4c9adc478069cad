package analysis

import (
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

type fakeData struct {
	kind       core.AnalysisKind
	components []string
}

func (d fakeData) Kind() core.AnalysisKind { return d.kind }
func (d fakeData) Components() []string    { return d.components }

func fullHandlerSet() HandlerSet {
	return HandlerSet{
		BuildData: func(input interface{}, opts core.Options) (Data, error) {
			return fakeData{kind: core.KindFactorAnalysis, components: []string{"F1"}}, nil
		},
		SystemPrompt:     func(opts core.Options) (string, error) { return "system", nil },
		MainPrompt:       func(data Data, opts core.Options) (string, error) { return "main", nil },
		ValidateResponse: ValidateResponse,
		ExtractByPattern: PatternSet{Nouns: []string{"Factor"}}.Extract,
		DefaultResult:    DefaultComponents,
		FitSummary:       func(data Data) Diagnostics { return Diagnostics{} },
		BuildReport: func(res *Interpretation, opts ReportOptions) (string, error) {
			return "report", nil
		},
	}
}
