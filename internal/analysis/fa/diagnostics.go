package fa

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
)

// FitSummary reports cross-loading and uncovered variables, factors that
// needed the emergency rule and strongly correlated factor pairs.
func FitSummary(data analysis.Data) analysis.Diagnostics {
	d, err := asData(data)
	if err != nil {
		return analysis.Diagnostics{}
	}

	var diag analysis.Diagnostics
	diag.CrossLoadings, diag.Uncovered = analysis.ScanVariables(d.Variables, d.Descriptions, d.ids, d.Loadings, d.Cutoff)

	for _, f := range d.Factors {
		switch {
		case f.Undefined:
			diag.Notes = append(diag.Notes, fmt.Sprintf(
				"Factor %s has no loadings at or above %.2f and is marked undefined.", f.ID, d.Cutoff))
		case f.UsedEmergency:
			diag.Notes = append(diag.Notes, fmt.Sprintf(
				"Factor %s has no loadings at or above %.2f; its %d strongest loadings were used instead.", f.ID, d.Cutoff, len(f.Loadings)))
		}
	}
	for _, p := range d.StrongCorrelations() {
		diag.Notes = append(diag.Notes, fmt.Sprintf(
			"Factors %s and %s correlate at %.2f and may not be distinct.", p.A, p.B, p.R))
	}
	return diag
}
