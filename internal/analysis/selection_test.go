package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSignificant(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		cutoff    float64
		n         int
		want      []int
		emergency bool
		undefined bool
	}{
		{
			name:   "above cutoff keeps original order",
			values: []float64{0.1, -0.6, 0.4, 0.2},
			cutoff: 0.3,
			n:      2,
			want:   []int{1, 2},
		},
		{
			name:   "cutoff is inclusive",
			values: []float64{0.3, 0.29},
			cutoff: 0.3,
			n:      2,
			want:   []int{0},
		},
		{
			name:      "emergency picks top n by magnitude",
			values:    []float64{0.1, -0.25, 0.2, 0.05},
			cutoff:    0.3,
			n:         2,
			want:      []int{1, 2},
			emergency: true,
		},
		{
			name:      "emergency ties keep original order",
			values:    []float64{0.2, -0.2, 0.1, 0.2},
			cutoff:    0.5,
			n:         2,
			want:      []int{0, 1},
			emergency: true,
		},
		{
			name:      "emergency n larger than values",
			values:    []float64{0.1, 0.2},
			cutoff:    0.5,
			n:         5,
			want:      []int{1, 0},
			emergency: true,
		},
		{
			name:      "zero emergency marks undefined",
			values:    []float64{0.1, 0.2},
			cutoff:    0.5,
			n:         0,
			undefined: true,
		},
		{
			name:      "no values",
			values:    nil,
			cutoff:    0.3,
			n:         2,
			undefined: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := SelectSignificant(tt.values, tt.cutoff, tt.n)
			assert.Equal(t, tt.want, sel.Indices)
			assert.Equal(t, tt.emergency, sel.UsedEmergency)
			assert.Equal(t, tt.undefined, sel.Undefined)
		})
	}
}

func TestSelectSignificant_Deterministic(t *testing.T) {
	values := []float64{0.11, -0.11, 0.11, 0.02, -0.11}
	first := SelectSignificant(values, 0.4, 3)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, SelectSignificant(values, 0.4, 3))
	}
	assert.Equal(t, []int{0, 1, 2}, first.Indices)
}

func TestOrderByMagnitude(t *testing.T) {
	values := []float64{0.4, -0.9, 0.4, 0.7}
	assert.Equal(t, []int{1, 3, 0, 2}, OrderByMagnitude([]int{0, 1, 2, 3}, values))
}
