package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis/fa"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

func TestDefault(t *testing.T) {
	r := Default()
	assert.Same(t, r, Default())
	assert.Equal(t, []core.AnalysisKind{core.KindFactorAnalysis, core.KindGaussianMixture}, r.Kinds())

	_, err := r.Lookup(core.KindCDM)
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatNotImplemented))
}

func TestDefault_ReRegisteringBuiltinIsNoop(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register(core.KindFactorAnalysis, fa.Handlers()))

	hs := fa.Handlers()
	hs.SystemPrompt = func(core.Options) (string, error) { return "", nil }
	assert.Error(t, r.Register(core.KindFactorAnalysis, hs))
}
