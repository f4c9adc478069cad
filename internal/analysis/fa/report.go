package fa

import (
	"fmt"
	"math"
	"time"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
)

type factorRow struct {
	ID       string
	Name     string
	Summary  string
	Variance float64
	Note     string
	Loadings []LoadingEntry
}

type matrixRow struct {
	Variable string
	Cells    []string
}

type matrixView struct {
	Header []string
	Rows   []matrixRow
}

type reportView struct {
	Level       int
	Compact     bool
	Placeholder bool
	Rows        []factorRow
	Matrix      matrixView
	Diagnostics analysis.Diagnostics
	Provider    string
	Tokens      string
	Elapsed     string
	Tier        string
}

// BuildReport renders the markdown report of an interpretation.
func BuildReport(res *analysis.Interpretation, opts analysis.ReportOptions) (string, error) {
	d, err := asData(res.Data)
	if err != nil {
		return "", err
	}

	view := reportView{
		Level:       max(opts.HeadingLevel, 1),
		Compact:     opts.Compact,
		Placeholder: res.Placeholder(),
		Matrix:      loadingMatrix(d),
		Diagnostics: res.Diagnostics,
		Provider:    providerLabel(res),
		Tokens:      res.Tokens.String(),
		Elapsed:     res.Elapsed.Round(time.Millisecond).String(),
		Tier:        res.Tier().String(),
	}
	for _, f := range d.Factors {
		row := factorRow{
			ID:       f.ID,
			Variance: f.VarianceExplained,
			Loadings: f.Loadings,
		}
		if res.Result != nil {
			row.Name, row.Summary = res.Result.Name(f.ID), res.Result.Summary(f.ID)
		}
		switch {
		case f.Undefined:
			row.Note = "No loadings reached the cutoff."
		case f.UsedEmergency:
			row.Note = fmt.Sprintf("No loadings reached the cutoff; showing the %d strongest.", len(f.Loadings))
		}
		view.Rows = append(view.Rows, row)
	}

	return renderer.Render("report", view)
}

// loadingMatrix formats every loading; with HideLowLoadings set, loadings
// below the cutoff are left blank.
func loadingMatrix(d *Data) matrixView {
	m := matrixView{Header: d.Components()}
	for i, v := range d.Variables {
		row := matrixRow{Variable: v, Cells: make([]string, len(d.Loadings[i]))}
		for j, value := range d.Loadings[i] {
			if d.HideLowLoadings && math.Abs(value) < d.Cutoff {
				continue
			}
			row.Cells[j] = fmt.Sprintf("%.2f", value)
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

func providerLabel(res *analysis.Interpretation) string {
	switch {
	case res.Provider == "" && res.Model == "":
		return "unknown"
	case res.Model == "":
		return res.Provider
	default:
		return res.Provider + " / " + res.Model
	}
}
