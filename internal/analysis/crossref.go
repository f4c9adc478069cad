package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// VariableInfo describes one observed variable.
type VariableInfo struct {
	Variable    string `json:"variable" yaml:"variable"`
	Description string `json:"description" yaml:"description"`
}

// CheckVariables cross-references the variables of a data matrix with the
// variable description table in both directions. On success it returns the
// description of each variable. The error names every offending variable.
func CheckVariables(source string, matrixVars []string, info []VariableInfo) (map[string]string, error) {
	descriptions := make(map[string]string, len(info))
	described := make([]string, 0, len(info))
	for _, vi := range info {
		name := strings.TrimSpace(vi.Variable)
		if name == "" {
			return nil, core.ErrValidation(core.CodeInvalidInput, "variable_info contains an entry without a variable name").
				WithDetail("field", "variable_info")
		}
		if _, dup := descriptions[name]; dup {
			return nil, core.ErrValidation(core.CodeInvalidInput,
				fmt.Sprintf("variable_info describes %q more than once", name)).
				WithDetail("field", "variable_info").
				WithDetail("variable", name)
		}
		descriptions[name] = vi.Description
		described = append(described, name)
	}

	inMatrix := make(map[string]bool, len(matrixVars))
	var undescribed []string
	for _, v := range matrixVars {
		inMatrix[v] = true
		if _, ok := descriptions[v]; !ok {
			undescribed = append(undescribed, v)
		}
	}

	var unused []string
	for _, v := range described {
		if !inMatrix[v] {
			unused = append(unused, v)
		}
	}

	if len(undescribed) == 0 && len(unused) == 0 {
		return descriptions, nil
	}

	var parts []string
	if len(undescribed) > 0 {
		parts = append(parts, fmt.Sprintf("%s variables missing from variable_info: %s",
			source, describeMismatch(undescribed, unused)))
	}
	if len(unused) > 0 {
		parts = append(parts, fmt.Sprintf("variable_info entries absent from %s: %s",
			source, describeMismatch(unused, undescribed)))
	}

	return nil, core.ErrValidation(core.CodeVariableMismatch, strings.Join(parts, "; ")).
		WithDetail("field", "variable_info").
		WithDetail("undescribed", undescribed).
		WithDetail("unused", unused)
}

// describeMismatch quotes each name and appends a near match from the other
// side when one exists.
func describeMismatch(names, others []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
		if s := Suggest(n, others); s != "" {
			out[i] += fmt.Sprintf(" (did you mean %q?)", s)
		}
	}
	return strings.Join(out, ", ")
}

// CheckIdentifiers fails when a list of identifiers is empty, contains a
// blank entry or a duplicate.
func CheckIdentifiers(field string, ids []string) error {
	if len(ids) == 0 {
		return core.ErrValidation(core.CodeInvalidInput, fmt.Sprintf("%s must not be empty", field)).
			WithDetail("field", field)
	}
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return core.ErrValidation(core.CodeInvalidInput, fmt.Sprintf("%s[%d] is blank", field, i)).
				WithDetail("field", field)
		}
		if seen[id] {
			return core.ErrValidation(core.CodeInvalidInput, fmt.Sprintf("%s contains %q more than once", field, id)).
				WithDetail("field", field)
		}
		seen[id] = true
	}
	return nil
}

// CheckMatrix verifies that matrix has one row per row label, one column per
// column label and only finite values.
func CheckMatrix(field string, matrix [][]float64, rows, cols []string) error {
	if len(matrix) != len(rows) {
		return core.ErrValidation(core.CodeInvalidInput,
			fmt.Sprintf("%s has %d rows, want %d", field, len(matrix), len(rows))).
			WithDetail("field", field)
	}
	for i, row := range matrix {
		if len(row) != len(cols) {
			return core.ErrValidation(core.CodeInvalidInput,
				fmt.Sprintf("%s row %q has %d values, want %d", field, rows[i], len(row), len(cols))).
				WithDetail("field", field)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return core.ErrValidation(core.CodeInvalidInput,
					fmt.Sprintf("%s[%q][%q] is not a finite number", field, rows[i], cols[j])).
					WithDetail("field", field)
			}
		}
	}
	return nil
}

// Column returns column j of a matrix.
func Column(matrix [][]float64, j int) []float64 {
	out := make([]float64, len(matrix))
	for i, row := range matrix {
		out[i] = row[j]
	}
	return out
}
