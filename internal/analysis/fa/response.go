package fa

import (
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// Replies sometimes number factors as components (principal components) or
// dimensions.
var patterns = analysis.PatternSet{Nouns: []string{"Factor", "Component", "Dimension"}}

// ValidateResponse accepts a candidate object with one {name,
// interpretation} entry per factor.
func ValidateResponse(candidate []byte, data analysis.Data) (*core.ComponentResult, error) {
	return analysis.ValidateComponentJSON(candidate, data.Components())
}

// ExtractByPattern recovers factor names from unstructured replies.
func ExtractByPattern(raw string, data analysis.Data) (*core.ComponentResult, bool) {
	return patterns.Extract(raw, data)
}

// DefaultResult returns "Factor N" placeholders.
func DefaultResult(data analysis.Data) *core.ComponentResult {
	return analysis.DefaultComponents(data)
}
