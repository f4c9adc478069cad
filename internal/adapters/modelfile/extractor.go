package modelfile

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// class describes how one exporting tool lays out its fitted model.
type class struct {
	kind core.AnalysisKind
	// prefix names components when the export carries no names.
	prefix string
	// componentMajor marks matrices stored [component][variable].
	componentMajor bool
}

var classes = map[string]class{
	"psych::fa":               {kind: core.KindFactorAnalysis, prefix: "MR"},
	"psych::principal":        {kind: core.KindFactorAnalysis, prefix: "RC"},
	"stats::factanal":         {kind: core.KindFactorAnalysis, prefix: "Factor"},
	"factor_analyzer":         {kind: core.KindFactorAnalysis, prefix: "Factor"},
	"mclust::Mclust":          {kind: core.KindGaussianMixture, prefix: "Cluster"},
	"sklearn.GaussianMixture": {kind: core.KindGaussianMixture, prefix: "Cluster", componentMajor: true},
}

// Classes returns the recognized model classes in sorted order.
func Classes() []string {
	out := make([]string, 0, len(classes))
	for name := range classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Extractor implements core.ModelExtractor for exported model documents.
// The model may be a file path, raw document bytes, a Document or a
// *Document.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract converts model into the raw input of kind's data builder.
func (e *Extractor) Extract(ctx context.Context, model interface{}, kind core.AnalysisKind) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := toDocument(model)
	if err != nil {
		return nil, err
	}

	cls, ok := classes[doc.Class]
	if !ok {
		return nil, unsupported(fmt.Sprintf("unsupported model class %q", doc.Class))
	}
	if cls.kind != kind {
		return nil, unsupported(fmt.Sprintf("model class %q produces %q results, not %q", doc.Class, cls.kind, kind))
	}

	switch cls.kind {
	case core.KindFactorAnalysis:
		return factorInput(doc, cls)
	default:
		return mixtureInput(doc, cls)
	}
}

func toDocument(model interface{}) (*Document, error) {
	switch m := model.(type) {
	case string:
		return ReadDocument(m)
	case []byte:
		return DecodeDocument(m)
	case Document:
		return &m, nil
	case *Document:
		if m != nil {
			return m, nil
		}
	}
	return nil, unsupported(fmt.Sprintf("unsupported model value of type %T", model))
}

func unsupported(msg string) *core.DomainError {
	return core.ErrValidation(core.CodeUnsupportedModel,
		fmt.Sprintf("%s; recognized classes: %s (kinds: %s, %s)", msg, strings.Join(Classes(), ", "),
			core.KindFactorAnalysis, core.KindGaussianMixture)).
		WithDetail("field", "model")
}

func factorInput(doc *Document, cls class) (map[string]interface{}, error) {
	if len(doc.Loadings) == 0 {
		return nil, unsupported(fmt.Sprintf("model class %q has no loadings", doc.Class))
	}
	loadings := doc.Loadings
	if cls.componentMajor {
		loadings = transpose(loadings)
	}

	out := map[string]interface{}{
		"factors":       componentNames(doc.Components, cls.prefix, columns(loadings)),
		"variables":     stringList(doc.Variables),
		"loadings":      matrix(loadings),
		"variable_info": variableInfo(doc.VariableInfo),
	}
	if len(doc.Phi) > 0 {
		out["factor_correlations"] = matrix(doc.Phi)
	}
	if doc.Method != "" {
		out["method"] = doc.Method
	}
	if doc.Rotation != "" {
		out["rotation"] = doc.Rotation
	}
	return out, nil
}

func mixtureInput(doc *Document, cls class) (map[string]interface{}, error) {
	if len(doc.Means) == 0 {
		return nil, unsupported(fmt.Sprintf("model class %q has no means", doc.Class))
	}
	means, variances := doc.Means, doc.Variances
	if cls.componentMajor {
		means = transpose(means)
		variances = transpose(variances)
	}

	out := map[string]interface{}{
		"clusters":      componentNames(doc.Components, cls.prefix, columns(means)),
		"variables":     stringList(doc.Variables),
		"means":         matrix(means),
		"variable_info": variableInfo(doc.VariableInfo),
	}
	if len(doc.Proportions) > 0 {
		props := make([]interface{}, len(doc.Proportions))
		for i, p := range doc.Proportions {
			props[i] = p
		}
		out["proportions"] = props
	}
	if len(variances) > 0 {
		out["sds"] = matrix(sqrtAll(variances))
	}
	if doc.CovarianceType != "" {
		out["covariance_type"] = doc.CovarianceType
	}
	return out, nil
}

func componentNames(names []string, prefix string, n int) []interface{} {
	if len(names) > 0 {
		return stringList(names)
	}
	out := make([]interface{}, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}

func columns(m [][]float64) int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// transpose swaps rows and columns. Ragged input is returned unchanged so
// that the data builder reports the shape error.
func transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return m
	}
	cols := len(m[0])
	for _, row := range m {
		if len(row) != cols {
			return m
		}
	}
	out := make([][]float64, cols)
	for j := range out {
		out[j] = make([]float64, len(m))
		for i := range m {
			out[j][i] = m[i][j]
		}
	}
	return out
}

func sqrtAll(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = math.Sqrt(v)
		}
	}
	return out
}

func stringList(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func matrix(m [][]float64) []interface{} {
	out := make([]interface{}, len(m))
	for i, row := range m {
		r := make([]interface{}, len(row))
		for j, v := range row {
			r[j] = v
		}
		out[i] = r
	}
	return out
}

func variableInfo(info []analysis.VariableInfo) []interface{} {
	out := make([]interface{}, len(info))
	for i, vi := range info {
		out[i] = map[string]interface{}{"variable": vi.Variable, "description": vi.Description}
	}
	return out
}
