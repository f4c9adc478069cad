package modelfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis/fa"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis/gm"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

var info = []analysis.VariableInfo{
	{Variable: "worry", Description: "I worry a lot"},
	{Variable: "sad", Description: "I feel sad"},
	{Variable: "tired", Description: "I feel tired"},
}

func factorDoc(class string) Document {
	return Document{
		Class:        class,
		Variables:    []string{"worry", "sad", "tired"},
		VariableInfo: info,
		Loadings: [][]float64{
			{0.81, 0.05},
			{0.10, 0.72},
			{0.40, 0.44},
		},
		Rotation: "oblimin",
	}
}

func TestExtract_FactorClassesNameComponents(t *testing.T) {
	tests := []struct {
		class string
		want  []interface{}
	}{
		{"psych::fa", []interface{}{"MR1", "MR2"}},
		{"psych::principal", []interface{}{"RC1", "RC2"}},
		{"stats::factanal", []interface{}{"Factor1", "Factor2"}},
		{"factor_analyzer", []interface{}{"Factor1", "Factor2"}},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			raw, err := NewExtractor().Extract(context.Background(), factorDoc(tt.class), core.KindFactorAnalysis)
			require.NoError(t, err)
			assert.Equal(t, tt.want, raw["factors"])
			assert.Equal(t, "oblimin", raw["rotation"])
		})
	}
}

func TestExtract_FactorOutputFeedsBuilder(t *testing.T) {
	doc := factorDoc("psych::fa")
	doc.Components = []string{"Anxiety", "Mood"}
	doc.Phi = [][]float64{{1, 0.3}, {0.3, 1}}

	raw, err := NewExtractor().Extract(context.Background(), &doc, core.KindFactorAnalysis)
	require.NoError(t, err)

	data, err := fa.Build(raw, core.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Anxiety", "Mood"}, data.Components())
}

func TestExtract_SklearnMixtureIsTransposed(t *testing.T) {
	doc := Document{
		Class:        "sklearn.GaussianMixture",
		Variables:    []string{"worry", "sad", "tired"},
		VariableInfo: info,
		// [cluster][variable]
		Means:          [][]float64{{1.1, -0.2, 0.4}, {-0.9, 0.8, 0.0}},
		Variances:      [][]float64{{4, 1, 1}, {1, 9, 1}},
		Proportions:    []float64{0.55, 0.45},
		CovarianceType: "diag",
	}

	raw, err := NewExtractor().Extract(context.Background(), doc, core.KindGaussianMixture)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"Cluster1", "Cluster2"}, raw["clusters"])
	assert.Equal(t, []interface{}{
		[]interface{}{1.1, -0.9},
		[]interface{}{-0.2, 0.8},
		[]interface{}{0.4, 0.0},
	}, raw["means"])
	assert.Equal(t, []interface{}{
		[]interface{}{2.0, 1.0},
		[]interface{}{1.0, 3.0},
		[]interface{}{1.0, 1.0},
	}, raw["sds"])
	assert.Equal(t, "diag", raw["covariance_type"])

	data, err := gm.Build(raw, core.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cluster1", "Cluster2"}, data.Components())
}

func TestExtract_MclustKeepsOrientation(t *testing.T) {
	doc := Document{
		Class:        "mclust::Mclust",
		Variables:    []string{"worry", "sad", "tired"},
		VariableInfo: info,
		Means:        [][]float64{{1.1, -0.9}, {-0.2, 0.8}, {0.4, 0.0}},
		Proportions:  []float64{0.5, 0.5},
	}

	raw, err := NewExtractor().Extract(context.Background(), doc, core.KindGaussianMixture)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.1, -0.9}, raw["means"].([]interface{})[0])
	assert.NotContains(t, raw, "sds")
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name  string
		model interface{}
		kind  core.AnalysisKind
		want  string
	}{
		{"unknown class", Document{Class: "lavaan::cfa"}, core.KindFactorAnalysis, `unsupported model class "lavaan::cfa"`},
		{"kind mismatch", factorDoc("psych::fa"), core.KindGaussianMixture, `produces "fa" results, not "gm"`},
		{"no loadings", Document{Class: "psych::fa"}, core.KindFactorAnalysis, "has no loadings"},
		{"no means", Document{Class: "mclust::Mclust"}, core.KindGaussianMixture, "has no means"},
		{"wrong type", 42, core.KindFactorAnalysis, "of type int"},
		{"nil document", (*Document)(nil), core.KindFactorAnalysis, "unsupported model value"},
		{"bad bytes", []byte("class: [unclosed"), core.KindFactorAnalysis, "decoding model document"},
		{"unknown field", []byte("class: psych::fa\nweights: [1]\n"), core.KindFactorAnalysis, "decoding model document"},
		{"missing file", filepath.Join(os.TempDir(), "no-such-model.yaml"), core.KindFactorAnalysis, "reading model file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor().Extract(context.Background(), tt.model, tt.kind)
			require.Error(t, err)
			assert.True(t, core.IsCategory(err, core.ErrCatValidation), "category = %s", core.GetCategory(err))
			assert.ErrorIs(t, err, &core.DomainError{Category: core.ErrCatValidation, Code: core.CodeUnsupportedModel})
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExtract_UnsupportedListsClassesAndKinds(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), Document{Class: "x"}, core.KindFactorAnalysis)
	require.Error(t, err)
	for _, c := range Classes() {
		assert.Contains(t, err.Error(), c)
	}
	assert.Contains(t, err.Error(), "kinds: fa, gm")
}

func TestExtract_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	content := `{"class":"stats::factanal","variables":["worry","sad","tired"],
"variable_info":[{"variable":"worry","description":"I worry a lot"},{"variable":"sad","description":"I feel sad"},{"variable":"tired","description":"I feel tired"}],
"loadings":[[0.8],[0.6],[0.1]],"method":"mle"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	raw, err := NewExtractor().Extract(context.Background(), path, core.KindFactorAnalysis)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Factor1"}, raw["factors"])
	assert.Equal(t, "mle", raw["method"])
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor().Extract(ctx, factorDoc("psych::fa"), core.KindFactorAnalysis)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte("factors: [MR1]\nvariables: [a]\n"), 0o600))

	raw, err := ReadInput(path)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"MR1"}, raw["factors"])

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0o600))
	_, err = ReadInput(empty)
	assert.ErrorContains(t, err, "input document is empty")

	_, err = ReadInput(filepath.Join(dir, "missing.yaml"))
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
}
