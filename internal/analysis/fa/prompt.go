package fa

import (
	"embed"
	"fmt"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var renderer = analysis.MustRenderer(templatesFS, "templates")

type variableView struct {
	Name        string
	Description string
}

type promptView struct {
	*Data
	Variables      []variableView
	Correlations   []CorrelationPair
	WordLimit      int
	AdditionalInfo string
}

// SystemPrompt renders the system prompt.
func SystemPrompt(opts core.Options) (string, error) {
	return renderer.Render("system", struct{ WordLimit int }{opts.WordLimit})
}

// MainPrompt renders the main prompt for data.
func MainPrompt(data analysis.Data, opts core.Options) (string, error) {
	d, err := asData(data)
	if err != nil {
		return "", err
	}

	view := promptView{
		Data:           d,
		Correlations:   d.allCorrelations(),
		WordLimit:      opts.WordLimit,
		AdditionalInfo: opts.AdditionalInfo,
	}
	for _, v := range d.Variables {
		view.Variables = append(view.Variables, variableView{Name: v, Description: d.Descriptions[v]})
	}
	return renderer.Render("main", view)
}

// allCorrelations lists the upper triangle of the factor correlation matrix.
func (d *Data) allCorrelations() []CorrelationPair {
	var out []CorrelationPair
	for i := range d.FactorCorrelations {
		for j := i + 1; j < len(d.FactorCorrelations[i]); j++ {
			out = append(out, CorrelationPair{A: d.ids[i], B: d.ids[j], R: d.FactorCorrelations[i][j]})
		}
	}
	return out
}

func asData(data analysis.Data) (*Data, error) {
	d, ok := data.(*Data)
	if !ok || d == nil {
		return nil, fmt.Errorf("factor analysis handler received %T", data)
	}
	return d, nil
}
