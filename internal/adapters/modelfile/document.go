// Package modelfile reads fitted-model exports and plain input documents
// (YAML or JSON) and turns models into the raw structures the data
// builders accept.
package modelfile

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/fsutil"
)

// Document is a fitted model exported from an R or Python fitting tool.
// Matrices use the orientation of the originating tool; the class
// decides how they are read.
type Document struct {
	Class        string                  `yaml:"class" json:"class"`
	Variables    []string                `yaml:"variables" json:"variables"`
	Components   []string                `yaml:"components,omitempty" json:"components,omitempty"`
	VariableInfo []analysis.VariableInfo `yaml:"variable_info" json:"variable_info"`

	// Factor models.
	Loadings [][]float64 `yaml:"loadings,omitempty" json:"loadings,omitempty"`
	Phi      [][]float64 `yaml:"phi,omitempty" json:"phi,omitempty"`
	Rotation string      `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Method   string      `yaml:"method,omitempty" json:"method,omitempty"`

	// Mixture models. Variances are the diagonal covariance entries.
	Means          [][]float64 `yaml:"means,omitempty" json:"means,omitempty"`
	Proportions    []float64   `yaml:"proportions,omitempty" json:"proportions,omitempty"`
	Variances      [][]float64 `yaml:"variances,omitempty" json:"variances,omitempty"`
	CovarianceType string      `yaml:"covariance_type,omitempty" json:"covariance_type,omitempty"`
}

// ReadDocument reads and decodes a model export. JSON is accepted since
// it is valid YAML.
func ReadDocument(path string) (*Document, error) {
	data, err := fsutil.ReadFileScoped(path, 0)
	if err != nil {
		return nil, core.ErrValidation(core.CodeUnsupportedModel, fmt.Sprintf("reading model file: %v", err)).
			WithCause(err).
			WithDetail("field", "model")
	}
	return DecodeDocument(data)
}

// DecodeDocument decodes a model export held in memory.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, core.ErrValidation(core.CodeUnsupportedModel, fmt.Sprintf("decoding model document: %v", err)).
			WithCause(err).
			WithDetail("field", "model")
	}
	return &doc, nil
}

// ReadInput reads a structured input document (YAML or JSON) into the
// loosely typed map the data builders decode.
func ReadInput(path string) (map[string]interface{}, error) {
	data, err := fsutil.ReadFileScoped(path, 0)
	if err != nil {
		return nil, core.ErrValidation(core.CodeInvalidInput, fmt.Sprintf("reading input file: %v", err)).
			WithCause(err).
			WithDetail("field", "input")
	}
	return DecodeInput(data)
}

// DecodeInput decodes an input document held in memory.
func DecodeInput(data []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, core.ErrValidation(core.CodeInvalidInput, fmt.Sprintf("decoding input document: %v", err)).
			WithCause(err).
			WithDetail("field", "input")
	}
	if len(raw) == 0 {
		return nil, core.ErrValidation(core.CodeInvalidInput, "input document is empty").WithDetail("field", "input")
	}
	return raw, nil
}
