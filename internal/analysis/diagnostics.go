package analysis

import "math"

// ComponentValue is the value of one variable on one component.
type ComponentValue struct {
	Component string  `json:"component"`
	Value     float64 `json:"value"`
}

// VariableHit reports a variable together with the values that qualified it.
type VariableHit struct {
	Variable    string           `json:"variable"`
	Description string           `json:"description"`
	Values      []ComponentValue `json:"values"`
}

// Diagnostics is computed from analysis data alone and does not depend on
// the model reply.
type Diagnostics struct {
	// CrossLoadings lists variables reaching the cutoff on two or more
	// components.
	CrossLoadings []VariableHit `json:"cross_loadings"`
	// Uncovered lists variables reaching the cutoff on no component. Their
	// values on every component are reported.
	Uncovered []VariableHit `json:"uncovered"`
	Notes     []string      `json:"notes,omitempty"`
}

// Empty reports whether there is nothing to show.
func (d Diagnostics) Empty() bool {
	return len(d.CrossLoadings) == 0 && len(d.Uncovered) == 0 && len(d.Notes) == 0
}

// ScanVariables walks a variable by component matrix in variable order and
// classifies each variable by the number of components on which its
// magnitude reaches cutoff.
func ScanVariables(variables []string, descriptions map[string]string, components []string, matrix [][]float64, cutoff float64) (cross, uncovered []VariableHit) {
	for i, v := range variables {
		var hits []ComponentValue
		for j, comp := range components {
			if math.Abs(matrix[i][j]) >= cutoff {
				hits = append(hits, ComponentValue{Component: comp, Value: matrix[i][j]})
			}
		}

		switch {
		case len(hits) >= 2:
			cross = append(cross, VariableHit{Variable: v, Description: descriptions[v], Values: hits})
		case len(hits) == 0:
			all := make([]ComponentValue, len(components))
			for j, comp := range components {
				all[j] = ComponentValue{Component: comp, Value: matrix[i][j]}
			}
			uncovered = append(uncovered, VariableHit{Variable: v, Description: descriptions[v], Values: all})
		}
	}
	return cross, uncovered
}
