// Package fa implements the factor analysis handlers: data building from a
// loadings matrix, prompts, reply extraction, diagnostics and reports.
package fa

import (
	"fmt"
	"math"
	"sort"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// Input is the raw structure accepted by Build. Loadings are indexed
// [variable][factor].
type Input struct {
	Factors            []string                `json:"factors"`
	Variables          []string                `json:"variables"`
	Loadings           [][]float64             `json:"loadings"`
	VariableInfo       []analysis.VariableInfo `json:"variable_info"`
	FactorCorrelations [][]float64             `json:"factor_correlations,omitempty"`
	Method             string                  `json:"method,omitempty"`
	Rotation           string                  `json:"rotation,omitempty"`
}

// LoadingEntry is one selected loading of a factor.
type LoadingEntry struct {
	Variable    string  `json:"variable"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

// Factor holds the selected loadings of one factor.
type Factor struct {
	ID                string         `json:"id"`
	Loadings          []LoadingEntry `json:"loadings"`
	UsedEmergency     bool           `json:"used_emergency"`
	Undefined         bool           `json:"undefined"`
	VarianceExplained float64        `json:"variance_explained"`
}

// Data is the normalized factor analysis record.
type Data struct {
	Factors            []Factor          `json:"factors"`
	Variables          []string          `json:"variables"`
	Descriptions       map[string]string `json:"descriptions"`
	Loadings           [][]float64       `json:"loadings"`
	FactorCorrelations [][]float64       `json:"factor_correlations,omitempty"`
	Cutoff             float64           `json:"cutoff"`
	NEmergency         int               `json:"n_emergency"`
	SortLoadings       bool              `json:"sort_loadings"`
	HideLowLoadings    bool              `json:"hide_low_loadings"`
	Method             string            `json:"method,omitempty"`
	Rotation           string            `json:"rotation,omitempty"`

	ids []string
}

// Kind implements analysis.Data.
func (d *Data) Kind() core.AnalysisKind { return core.KindFactorAnalysis }

// Components implements analysis.Data.
func (d *Data) Components() []string {
	return append([]string(nil), d.ids...)
}

// Factor returns the factor with the given identifier.
func (d *Data) Factor(id string) (Factor, bool) {
	for _, f := range d.Factors {
		if f.ID == id {
			return f, true
		}
	}
	return Factor{}, false
}

// Build validates the options and the input, then builds the factor
// analysis record. input may be an Input, a *Input or a loosely typed map.
func Build(input interface{}, opts core.Options) (analysis.Data, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	in, err := decode(input)
	if err != nil {
		return nil, err
	}
	descriptions, err := check(in)
	if err != nil {
		return nil, err
	}

	d := &Data{
		Variables:          append([]string(nil), in.Variables...),
		Descriptions:       descriptions,
		Loadings:           copyMatrix(in.Loadings),
		FactorCorrelations: copyMatrix(in.FactorCorrelations),
		Cutoff:             opts.Cutoff,
		NEmergency:         opts.NEmergency,
		SortLoadings:       opts.SortLoadings,
		HideLowLoadings:    opts.HideLowLoadings,
		Method:             in.Method,
		Rotation:           in.Rotation,
		ids:                append([]string(nil), in.Factors...),
	}

	for j, id := range in.Factors {
		col := analysis.Column(in.Loadings, j)
		sel := analysis.SelectSignificant(col, opts.Cutoff, opts.NEmergency)

		indices := sel.Indices
		if opts.SortLoadings {
			indices = analysis.OrderByMagnitude(indices, col)
		} else {
			indices = append([]int(nil), indices...)
			sort.Ints(indices)
		}

		f := Factor{
			ID:                id,
			UsedEmergency:     sel.UsedEmergency,
			Undefined:         sel.Undefined,
			VarianceExplained: sumSquares(col) / float64(len(col)),
		}
		for _, i := range indices {
			v := in.Variables[i]
			f.Loadings = append(f.Loadings, LoadingEntry{Variable: v, Description: descriptions[v], Value: col[i]})
		}
		d.Factors = append(d.Factors, f)
	}
	return d, nil
}

func decode(input interface{}) (Input, error) {
	switch v := input.(type) {
	case Input:
		return v, nil
	case *Input:
		if v == nil {
			return Input{}, core.ErrValidation(core.CodeInvalidInput, "input is empty").WithDetail("field", "input")
		}
		return *v, nil
	}
	var in Input
	if err := analysis.DecodeInput(input, &in); err != nil {
		return Input{}, err
	}
	return in, nil
}

func check(in Input) (map[string]string, error) {
	if err := analysis.CheckIdentifiers("factors", in.Factors); err != nil {
		return nil, err
	}
	if err := analysis.CheckIdentifiers("variables", in.Variables); err != nil {
		return nil, err
	}
	if err := analysis.CheckMatrix("loadings", in.Loadings, in.Variables, in.Factors); err != nil {
		return nil, err
	}
	if in.FactorCorrelations != nil {
		if err := checkCorrelations(in.FactorCorrelations, in.Factors); err != nil {
			return nil, err
		}
	}
	return analysis.CheckVariables("loadings", in.Variables, in.VariableInfo)
}

func checkCorrelations(m [][]float64, factors []string) error {
	if err := analysis.CheckMatrix("factor_correlations", m, factors, factors); err != nil {
		return err
	}
	for i, row := range m {
		for j, r := range row {
			if r < -1 || r > 1 {
				return core.ErrValidation(core.CodeInvalidInput,
					fmt.Sprintf("factor_correlations[%q][%q] must be between -1 and 1 (got %v)", factors[i], factors[j], r)).
					WithDetail("field", "factor_correlations")
			}
		}
	}
	return nil
}

// StrongCorrelation is the absolute inter-factor correlation at which two
// factors are flagged as possibly redundant.
const StrongCorrelation = 0.7

// CorrelationPair is one pair of factors and their correlation.
type CorrelationPair struct {
	A, B string
	R    float64
}

// StrongCorrelations returns the factor pairs whose absolute correlation
// reaches StrongCorrelation, in matrix order.
func (d *Data) StrongCorrelations() []CorrelationPair {
	var out []CorrelationPair
	for i := range d.FactorCorrelations {
		for j := i + 1; j < len(d.FactorCorrelations[i]); j++ {
			r := d.FactorCorrelations[i][j]
			if math.Abs(r) >= StrongCorrelation {
				out = append(out, CorrelationPair{A: d.ids[i], B: d.ids[j], R: r})
			}
		}
	}
	return out
}

func sumSquares(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v * v
	}
	return s
}

func copyMatrix(m [][]float64) [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
