package gm

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
)

// FitSummary reports variables distinguishing several clusters or none,
// small clusters and clusters that needed the emergency rule.
func FitSummary(data analysis.Data) analysis.Diagnostics {
	d, err := asData(data)
	if err != nil {
		return analysis.Diagnostics{}
	}

	var diag analysis.Diagnostics
	diag.CrossLoadings, diag.Uncovered = analysis.ScanVariables(d.Variables, d.Descriptions, d.ids, d.Means, d.Cutoff)

	for _, c := range d.Clusters {
		if c.HasProportion && c.Proportion < SmallCluster {
			diag.Notes = append(diag.Notes, fmt.Sprintf(
				"Cluster %s holds only %.1f%% of the sample; its profile may be unstable.", c.ID, c.Proportion*100))
		}
		switch {
		case c.Undefined:
			diag.Notes = append(diag.Notes, fmt.Sprintf(
				"Cluster %s has no variable at or above %.2f and is marked undefined.", c.ID, d.Cutoff))
		case c.UsedEmergency:
			diag.Notes = append(diag.Notes, fmt.Sprintf(
				"Cluster %s has no variable at or above %.2f; its %d largest departures were used instead.", c.ID, d.Cutoff, len(c.Features)))
		}
	}
	return diag
}
