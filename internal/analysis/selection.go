package analysis

import (
	"math"
	"sort"
)

// Selection is the outcome of picking the significant values of one
// component.
type Selection struct {
	// Indices of the selected values. Above-cutoff selections keep the
	// original order; emergency selections are ranked by magnitude.
	Indices []int
	// UsedEmergency is set when no value reached the cutoff and the top-N
	// fallback was applied.
	UsedEmergency bool
	// Undefined is set when nothing could be selected.
	Undefined bool
}

// SelectSignificant selects the values whose magnitude reaches cutoff. When
// none does, the nEmergency largest magnitudes are selected instead, ties
// keeping their original order. With nEmergency == 0 the component is
// marked undefined and nothing is selected.
func SelectSignificant(values []float64, cutoff float64, nEmergency int) Selection {
	var sel Selection
	for i, v := range values {
		if math.Abs(v) >= cutoff {
			sel.Indices = append(sel.Indices, i)
		}
	}
	if len(sel.Indices) > 0 {
		return sel
	}

	if nEmergency <= 0 || len(values) == 0 {
		sel.Undefined = true
		return sel
	}

	ranked := make([]int, len(values))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return math.Abs(values[ranked[a]]) > math.Abs(values[ranked[b]])
	})
	if nEmergency < len(ranked) {
		ranked = ranked[:nEmergency]
	}

	sel.Indices = ranked
	sel.UsedEmergency = true
	return sel
}

// OrderByMagnitude returns the indices sorted by descending magnitude of
// their values. The sort is stable.
func OrderByMagnitude(indices []int, values []float64) []int {
	out := append([]int(nil), indices...)
	sort.SliceStable(out, func(a, b int) bool {
		return math.Abs(values[out[a]]) > math.Abs(values[out[b]])
	})
	return out
}
