// Package parser turns a free-form model reply into a validated component
// result. Parsing never fails: an ordered list of strategies is tried and
// deterministic placeholders are produced when every strategy is rejected.
package parser

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/logging"
)

// strategy is one parsing tier. It returns nil when it cannot produce a
// valid result, along with the attempts it rejected.
type strategy struct {
	tier core.ParseTier
	run  func(raw string, data analysis.Data, hs analysis.HandlerSet) (*core.ComponentResult, []core.TierAttempt)
}

// Parser runs the tiered parsing strategies.
type Parser struct {
	logger     *logging.Logger
	strategies []strategy
}

// New creates a parser. A nil logger discards degradation warnings.
func New(logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Parser{
		logger: logger.WithComponent("parser"),
		strategies: []strategy{
			{tier: core.TierClean, run: parseCleaned},
			{tier: core.TierRaw, run: parseRaw},
			{tier: core.TierPattern, run: parsePattern},
		},
	}
}

// Parse converts raw into a result holding exactly the components declared
// by data, in declared order. The result records the tier that produced it
// and every rejected attempt. Parse is a pure function of its inputs.
func (p *Parser) Parse(raw string, data analysis.Data, hs analysis.HandlerSet) *core.ComponentResult {
	components := data.Components()
	var attempts []core.TierAttempt

	for _, s := range p.strategies {
		result, rejected := s.run(raw, data, hs)
		attempts = append(attempts, rejected...)
		if result == nil {
			continue
		}
		if err := result.MatchesComponents(components); err != nil {
			attempts = append(attempts, core.TierAttempt{Tier: s.tier, Reason: err.Error()})
			continue
		}

		result = result.Clone()
		result.Tier = s.tier
		result.Attempts = attempts
		if s.tier.Degraded() {
			p.logger.Warn("reply parsed by pattern extraction",
				"kind", string(data.Kind()),
				"tier", int(s.tier),
				"rejected", len(attempts))
		}
		return result
	}

	result := placeholders(data, hs)
	result.Attempts = attempts
	p.logger.Warn("reply could not be parsed, using placeholders",
		"kind", string(data.Kind()),
		"tier", int(core.TierDefault),
		"rejected", len(attempts))
	return result
}

// placeholders returns the kind's default result, falling back to generic
// placeholders when the handler does not cover the declared components.
func placeholders(data analysis.Data, hs analysis.HandlerSet) *core.ComponentResult {
	var result *core.ComponentResult
	if hs.DefaultResult != nil {
		result = hs.DefaultResult(data)
	}
	if result == nil || result.MatchesComponents(data.Components()) != nil {
		result = analysis.DefaultComponents(data)
	}
	result = result.Clone()
	result.Tier = core.TierDefault
	return result
}

// parseCleaned tries each top-level object of the reply in order: as-is,
// with whitespace collapsed, then repaired. Trying the untouched object
// first keeps already valid replies byte-for-byte.
func parseCleaned(raw string, data analysis.Data, hs analysis.HandlerSet) (*core.ComponentResult, []core.TierAttempt) {
	cands := objectCandidates(stripFences(raw))
	if len(cands) == 0 {
		return nil, []core.TierAttempt{{Tier: core.TierClean, Step: "isolate", Reason: "no object delimiters found"}}
	}

	var attempts []core.TierAttempt
	for n, obj := range cands {
		collapsed := collapseWhitespace(obj)
		passes := []struct {
			step      string
			candidate string
		}{
			{"as-is", obj},
			{"collapsed", collapsed},
			{"repaired", repair(collapsed)},
		}

		for _, pass := range passes {
			result, err := hs.ValidateResponse([]byte(pass.candidate), data)
			if err == nil {
				return result, attempts
			}
			step := pass.step
			if n > 0 {
				step = fmt.Sprintf("object %d %s", n+1, pass.step)
			}
			attempts = append(attempts, core.TierAttempt{Tier: core.TierClean, Step: step, Reason: err.Error()})
		}
	}
	return nil, attempts
}

// parseRaw strictly parses the unmodified reply.
func parseRaw(raw string, data analysis.Data, hs analysis.HandlerSet) (*core.ComponentResult, []core.TierAttempt) {
	result, err := hs.ValidateResponse([]byte(raw), data)
	if err != nil {
		return nil, []core.TierAttempt{{Tier: core.TierRaw, Reason: err.Error()}}
	}
	return result, nil
}

// parsePattern runs the kind's regular-expression extraction.
func parsePattern(raw string, data analysis.Data, hs analysis.HandlerSet) (*core.ComponentResult, []core.TierAttempt) {
	result, ok := hs.ExtractByPattern(raw, data)
	if !ok || result == nil {
		return nil, []core.TierAttempt{{Tier: core.TierPattern, Reason: "no component markers found"}}
	}
	return result, nil
}
