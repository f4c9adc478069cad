package service_test

import (
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/service"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/testutil"
)

func interpretation(kind core.AnalysisKind, tier core.ParseTier, tokens core.TokenUsage) *analysis.Interpretation {
	return &analysis.Interpretation{
		Kind:     kind,
		Result:   core.NewComponentResult(tier),
		Tokens:   tokens,
		Elapsed:  100 * time.Millisecond,
		Provider: "anthropic",
		Model:    "claude",
	}
}

func TestMetricsCollector_RecordInterpretation(t *testing.T) {
	collector := service.NewMetricsCollector()
	known := core.TokenUsage{Input: 100, Output: 50, InputKnown: true, OutputKnown: true}

	collector.RecordInterpretation(interpretation(core.KindFactorAnalysis, core.TierClean, known))
	collector.RecordInterpretation(interpretation(core.KindFactorAnalysis, core.TierDefault, core.TokenUsage{}))
	collector.RecordInterpretation(interpretation(core.KindGaussianMixture, core.TierPattern, known))

	snap := collector.Snapshot()
	testutil.AssertEqual(t, snap.Totals.Requests, 3)
	testutil.AssertEqual(t, snap.Totals.Succeeded, 3)
	testutil.AssertEqual(t, snap.Totals.Degraded, 2)
	testutil.AssertEqual(t, snap.Totals.Placeholders, 1)
	testutil.AssertEqual(t, snap.Totals.TokensIn, 200)

	testutil.AssertLen(t, snap.Kinds, 2)
	testutil.AssertEqual(t, snap.Kinds[0].Kind, core.KindFactorAnalysis)
	testutil.AssertEqual(t, snap.Kinds[0].ByTier["clean"], 1)
	testutil.AssertEqual(t, snap.Kinds[0].ByTier["default"], 1)
	testutil.AssertEqual(t, snap.Kinds[0].AvgDuration, 100*time.Millisecond)

	testutil.AssertLen(t, snap.Providers, 1)
	testutil.AssertEqual(t, snap.Providers[0].Name, "anthropic/claude")
	testutil.AssertEqual(t, snap.Providers[0].Invocations, 3)
	testutil.AssertEqual(t, snap.Providers[0].UnknownUsage, 1)
}

func TestMetricsCollector_RecordFailure(t *testing.T) {
	collector := service.NewMetricsCollector()

	collector.RecordFailure(core.KindFactorAnalysis, core.ErrInvalidOption("cutoff", "between 0 and 1", 2))
	collector.RecordFailure(core.KindFactorAnalysis, testutil.ErrTest)

	snap := collector.Snapshot()
	testutil.AssertEqual(t, snap.Totals.Failed, 2)
	testutil.AssertEqual(t, snap.Kinds[0].Failures["config"], 1)
	testutil.AssertEqual(t, snap.Kinds[0].Failures["internal"], 1)
}

func TestMetricsCollector_SnapshotIsACopy(t *testing.T) {
	collector := service.NewMetricsCollector()
	collector.RecordInterpretation(interpretation(core.KindFactorAnalysis, core.TierClean, core.TokenUsage{}))

	snap := collector.Snapshot()
	snap.Kinds[0].ByTier["clean"] = 99

	testutil.AssertEqual(t, collector.Snapshot().Kinds[0].ByTier["clean"], 1)
}
