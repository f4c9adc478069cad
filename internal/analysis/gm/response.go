package gm

import (
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

var patterns = analysis.PatternSet{Nouns: []string{"Cluster", "Profile", "Class", "Group"}}

// ValidateResponse accepts a candidate object with one {name,
// interpretation} entry per cluster.
func ValidateResponse(candidate []byte, data analysis.Data) (*core.ComponentResult, error) {
	return analysis.ValidateComponentJSON(candidate, data.Components())
}

// ExtractByPattern recovers cluster names from unstructured replies.
func ExtractByPattern(raw string, data analysis.Data) (*core.ComponentResult, bool) {
	return patterns.Extract(raw, data)
}

// DefaultResult returns "Cluster N" placeholders.
func DefaultResult(data analysis.Data) *core.ComponentResult {
	return analysis.DefaultComponents(data)
}
