package gm

import (
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
)

type clusterRow struct {
	ID         string
	Name       string
	Summary    string
	Proportion string
	Note       string
	Features   []FeatureEntry
}

type reportView struct {
	Level       int
	Compact     bool
	Placeholder bool
	Rows        []clusterRow
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
		Diagnostics: res.Diagnostics,
		Provider:    "unknown",
		Tokens:      res.Tokens.String(),
		Elapsed:     res.Elapsed.Round(time.Millisecond).String(),
		Tier:        res.Tier().String(),
	}
	if res.Provider != "" {
		view.Provider = res.Provider
		if res.Model != "" {
			view.Provider += " / " + res.Model
		}
	}

	for _, c := range d.Clusters {
		row := clusterRow{ID: c.ID, Proportion: "n/a", Features: c.Features}
		if c.HasProportion {
			row.Proportion = fmt.Sprintf("%.1f%%", c.Proportion*100)
		}
		if res.Result != nil {
			row.Name, row.Summary = res.Result.Name(c.ID), res.Result.Summary(c.ID)
		}
		switch {
		case c.Undefined:
			row.Note = "No variable reached the threshold."
		case c.UsedEmergency:
			row.Note = fmt.Sprintf("No variable reached the threshold; showing the %d largest departures.", len(c.Features))
		}
		view.Rows = append(view.Rows, row)
	}

	return renderer.Render("report", view)
}
