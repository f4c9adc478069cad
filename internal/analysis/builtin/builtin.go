// Package builtin wires the implemented analysis kinds into a process-wide
// registry.
package builtin

import (
	"sync"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis/fa"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis/gm"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

var (
	defaultRegistry *analysis.Registry
	once            sync.Once
)

// Default returns the process-wide registry holding every implemented kind.
// It is populated on first use.
func Default() *analysis.Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry returns a fresh registry holding every implemented kind.
func NewRegistry() *analysis.Registry {
	r := analysis.NewRegistry()
	r.MustRegister(core.KindFactorAnalysis, fa.Handlers())
	r.MustRegister(core.KindGaussianMixture, gm.Handlers())
	return r
}
