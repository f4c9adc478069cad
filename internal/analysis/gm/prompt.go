package gm

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

	view := promptView{Data: d, WordLimit: opts.WordLimit, AdditionalInfo: opts.AdditionalInfo}
	for _, v := range d.Variables {
		view.Variables = append(view.Variables, variableView{Name: v, Description: d.Descriptions[v]})
	}
	return renderer.Render("main", view)
}

func asData(data analysis.Data) (*Data, error) {
	d, ok := data.(*Data)
	if !ok || d == nil {
		return nil, fmt.Errorf("gaussian mixture handler received %T", data)
	}
	return d, nil
}
