package service

import (
	"sort"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// MetricsCollector aggregates interpretation outcomes per analysis kind and
// per chat provider.
type MetricsCollector struct {
	started   time.Time
	totals    TotalMetrics
	kinds     map[core.AnalysisKind]*KindMetrics
	providers map[string]*ProviderMetrics
	mu        sync.RWMutex
}

// TotalMetrics holds process-wide counters.
type TotalMetrics struct {
	Requests     int `json:"requests"`
	Succeeded    int `json:"succeeded"`
	Failed       int `json:"failed"`
	Degraded     int `json:"degraded"`
	Placeholders int `json:"placeholders"`
	TokensIn     int `json:"tokens_in"`
	TokensOut    int `json:"tokens_out"`
}

// KindMetrics holds counters for one analysis kind.
type KindMetrics struct {
	Kind          core.AnalysisKind `json:"kind"`
	Requests      int               `json:"requests"`
	Failures      map[string]int    `json:"failures,omitempty"` // by error category
	ByTier        map[string]int    `json:"by_tier"`
	TotalDuration time.Duration     `json:"total_duration"`
	AvgDuration   time.Duration     `json:"avg_duration"`
}

// ProviderMetrics holds counters for one provider and model pair.
type ProviderMetrics struct {
	Name          string        `json:"name"`
	Invocations   int           `json:"invocations"`
	TokensIn      int           `json:"tokens_in"`
	TokensOut     int           `json:"tokens_out"`
	UnknownUsage  int           `json:"unknown_usage"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
}

// MetricsSnapshot is a consistent copy of every counter.
type MetricsSnapshot struct {
	Started   time.Time         `json:"started"`
	Totals    TotalMetrics      `json:"totals"`
	Kinds     []KindMetrics     `json:"kinds"`
	Providers []ProviderMetrics `json:"providers"`
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		started:   time.Now(),
		kinds:     make(map[core.AnalysisKind]*KindMetrics),
		providers: make(map[string]*ProviderMetrics),
	}
}

// RecordInterpretation records a completed interpretation.
func (m *MetricsCollector) RecordInterpretation(res *analysis.Interpretation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totals.Requests++
	m.totals.Succeeded++
	m.totals.TokensIn += res.Tokens.Input
	m.totals.TokensOut += res.Tokens.Output
	if res.Tier().Degraded() {
		m.totals.Degraded++
	}
	if res.Placeholder() {
		m.totals.Placeholders++
	}

	km := m.kind(res.Kind)
	km.Requests++
	km.ByTier[res.Tier().String()]++
	km.TotalDuration += res.Elapsed
	km.AvgDuration = km.TotalDuration / time.Duration(km.Requests)

	m.updateProviderMetrics(res)
}

// RecordFailure records a request that returned an error.
func (m *MetricsCollector) RecordFailure(kind core.AnalysisKind, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totals.Requests++
	m.totals.Failed++

	km := m.kind(kind)
	km.Requests++
	if km.Failures == nil {
		km.Failures = make(map[string]int)
	}
	km.Failures[string(core.GetCategory(err))]++
}

func (m *MetricsCollector) kind(kind core.AnalysisKind) *KindMetrics {
	km, ok := m.kinds[kind]
	if !ok {
		km = &KindMetrics{Kind: kind, ByTier: make(map[string]int)}
		m.kinds[kind] = km
	}
	return km
}

func (m *MetricsCollector) updateProviderMetrics(res *analysis.Interpretation) {
	name := res.Provider
	if res.Model != "" {
		name += "/" + res.Model
	}
	pm, ok := m.providers[name]
	if !ok {
		pm = &ProviderMetrics{Name: name}
		m.providers[name] = pm
	}

	pm.Invocations++
	pm.TokensIn += res.Tokens.Input
	pm.TokensOut += res.Tokens.Output
	if !res.Tokens.InputKnown || !res.Tokens.OutputKnown {
		pm.UnknownUsage++
	}
	pm.TotalDuration += res.Elapsed
	pm.AvgDuration = pm.TotalDuration / time.Duration(pm.Invocations)
}

// Snapshot returns a copy of every counter, kinds and providers sorted by
// name.
func (m *MetricsCollector) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		Started:   m.started,
		Totals:    m.totals,
		Kinds:     make([]KindMetrics, 0, len(m.kinds)),
		Providers: make([]ProviderMetrics, 0, len(m.providers)),
	}
	for _, km := range m.kinds {
		c := *km
		c.ByTier = copyCounts(km.ByTier)
		c.Failures = copyCounts(km.Failures)
		snap.Kinds = append(snap.Kinds, c)
	}
	for _, pm := range m.providers {
		snap.Providers = append(snap.Providers, *pm)
	}
	sort.Slice(snap.Kinds, func(i, j int) bool { return snap.Kinds[i].Kind < snap.Kinds[j].Kind })
	sort.Slice(snap.Providers, func(i, j int) bool { return snap.Providers[i].Name < snap.Providers[j].Name })
	return snap
}

func copyCounts(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
