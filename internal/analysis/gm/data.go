// Package gm implements the Gaussian mixture handlers. Cluster means are
// expected on a standardized scale so that one cutoff applies to every
// variable.
package gm

import (
	"fmt"
	"math"
	"sort"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// ProportionTolerance is the allowed deviation of the mixing proportions'
// sum from one.
const ProportionTolerance = 0.01

// SmallCluster is the mixing proportion below which a cluster is flagged.
const SmallCluster = 0.05

// Input is the raw structure accepted by Build. Means and standard
// deviations are indexed [variable][cluster].
type Input struct {
	Clusters       []string                `json:"clusters"`
	Variables      []string                `json:"variables"`
	Means          [][]float64             `json:"means"`
	SDs            [][]float64             `json:"sds,omitempty"`
	Proportions    []float64               `json:"proportions,omitempty"`
	VariableInfo   []analysis.VariableInfo `json:"variable_info"`
	CovarianceType string                  `json:"covariance_type,omitempty"`
}

// FeatureEntry is one distinguishing variable of a cluster.
type FeatureEntry struct {
	Variable    string  `json:"variable"`
	Description string  `json:"description"`
	Mean        float64 `json:"mean"`
	SD          float64 `json:"sd,omitempty"`
	HasSD       bool    `json:"has_sd"`
}

// Cluster holds the distinguishing variables of one cluster.
type Cluster struct {
	ID            string         `json:"id"`
	Proportion    float64        `json:"proportion"`
	HasProportion bool           `json:"has_proportion"`
	Features      []FeatureEntry `json:"features"`
	UsedEmergency bool           `json:"used_emergency"`
	Undefined     bool           `json:"undefined"`
}

// Data is the normalized Gaussian mixture record.
type Data struct {
	Clusters       []Cluster         `json:"clusters"`
	Variables      []string          `json:"variables"`
	Descriptions   map[string]string `json:"descriptions"`
	Means          [][]float64       `json:"means"`
	SDs            [][]float64       `json:"sds,omitempty"`
	CovarianceType string            `json:"covariance_type,omitempty"`
	Cutoff         float64           `json:"cutoff"`
	NEmergency     int               `json:"n_emergency"`

	ids []string
}

// Kind implements analysis.Data.
func (d *Data) Kind() core.AnalysisKind { return core.KindGaussianMixture }

// Components implements analysis.Data.
func (d *Data) Components() []string {
	return append([]string(nil), d.ids...)
}

// Cluster returns the cluster with the given identifier.
func (d *Data) Cluster(id string) (Cluster, bool) {
	for _, c := range d.Clusters {
		if c.ID == id {
			return c, true
		}
	}
	return Cluster{}, false
}

// Build validates the options and the input, then builds the mixture
// record. input may be an Input, a *Input or a loosely typed map.
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
		Variables:      append([]string(nil), in.Variables...),
		Descriptions:   descriptions,
		Means:          copyMatrix(in.Means),
		SDs:            copyMatrix(in.SDs),
		CovarianceType: in.CovarianceType,
		Cutoff:         opts.Cutoff,
		NEmergency:     opts.NEmergency,
		ids:            append([]string(nil), in.Clusters...),
	}

	for j, id := range in.Clusters {
		col := analysis.Column(in.Means, j)
		sel := analysis.SelectSignificant(col, opts.Cutoff, opts.NEmergency)

		indices := sel.Indices
		if opts.SortLoadings {
			indices = analysis.OrderByMagnitude(indices, col)
		} else {
			indices = append([]int(nil), indices...)
			sort.Ints(indices)
		}

		c := Cluster{
			ID:            id,
			UsedEmergency: sel.UsedEmergency,
			Undefined:     sel.Undefined,
		}
		if in.Proportions != nil {
			c.Proportion, c.HasProportion = in.Proportions[j], true
		}
		for _, i := range indices {
			v := in.Variables[i]
			fe := FeatureEntry{Variable: v, Description: descriptions[v], Mean: col[i]}
			if in.SDs != nil {
				fe.SD, fe.HasSD = in.SDs[i][j], true
			}
			c.Features = append(c.Features, fe)
		}
		d.Clusters = append(d.Clusters, c)
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
	if err := analysis.CheckIdentifiers("clusters", in.Clusters); err != nil {
		return nil, err
	}
	if err := analysis.CheckIdentifiers("variables", in.Variables); err != nil {
		return nil, err
	}
	if err := analysis.CheckMatrix("means", in.Means, in.Variables, in.Clusters); err != nil {
		return nil, err
	}
	if in.SDs != nil {
		if err := analysis.CheckMatrix("sds", in.SDs, in.Variables, in.Clusters); err != nil {
			return nil, err
		}
		for i, row := range in.SDs {
			for j, sd := range row {
				if sd < 0 {
					return nil, core.ErrValidation(core.CodeInvalidInput,
						fmt.Sprintf("sds[%q][%q] must be non-negative (got %v)", in.Variables[i], in.Clusters[j], sd)).
						WithDetail("field", "sds")
				}
			}
		}
	}
	if in.Proportions != nil {
		if err := checkProportions(in.Proportions, in.Clusters); err != nil {
			return nil, err
		}
	}
	return analysis.CheckVariables("means", in.Variables, in.VariableInfo)
}

func checkProportions(p []float64, clusters []string) error {
	if len(p) != len(clusters) {
		return core.ErrValidation(core.CodeInvalidInput,
			fmt.Sprintf("proportions has %d values, want %d (one per cluster)", len(p), len(clusters))).
			WithDetail("field", "proportions")
	}
	var sum float64
	for i, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return core.ErrValidation(core.CodeInvalidInput,
				fmt.Sprintf("proportions[%q] must be between 0 and 1 (got %v)", clusters[i], v)).
				WithDetail("field", "proportions")
		}
		sum += v
	}
	if math.Abs(sum-1) > ProportionTolerance {
		return core.ErrValidation(core.CodeInvalidInput,
			fmt.Sprintf("proportions must sum to 1 (got %.3f)", sum)).
			WithDetail("field", "proportions")
	}
	return nil
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
