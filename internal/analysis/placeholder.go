package analysis

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// Sentinel values the prompts ask the model to use for components without
// qualifying data.
const (
	SentinelUndefined = "undefined"
	SentinelNA        = "NA"
)

// PlaceholderName returns the generic name of the i-th component (1-based).
func PlaceholderName(noun string, i int) string {
	return fmt.Sprintf("%s %d", noun, i)
}

// PlaceholderSummary returns the placeholder interpretation of the i-th
// component. The component identifier is appended when it differs from the
// generic name so that the placeholder always references it.
func PlaceholderSummary(noun string, i int, component string) string {
	generic := PlaceholderName(noun, i)
	if component == generic {
		return generic + " interpretation unavailable"
	}
	return fmt.Sprintf("%s interpretation unavailable (%s)", generic, component)
}

// DefaultComponents builds a placeholder for every component of data.
func DefaultComponents(data Data) *core.ComponentResult {
	noun := data.Kind().ComponentNoun()
	result := core.NewComponentResult(core.TierDefault)
	for i, comp := range data.Components() {
		result.Set(comp, PlaceholderName(noun, i+1), PlaceholderSummary(noun, i+1, comp))
	}
	return result
}
