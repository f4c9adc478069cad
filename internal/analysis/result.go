package analysis

import (
	"time"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// Interpretation is the outcome of one interpretation request. It is built
// once by the orchestrator and not modified afterwards.
type Interpretation struct {
	ID          string                `json:"id"`
	Kind        core.AnalysisKind     `json:"kind"`
	Data        Data                  `json:"data"`
	Result      *core.ComponentResult `json:"result"`
	Diagnostics Diagnostics           `json:"diagnostics"`
	Tokens      core.TokenUsage       `json:"tokens"`
	Elapsed     time.Duration         `json:"elapsed"`
	Provider    string                `json:"provider"`
	Model       string                `json:"model"`

	SystemPrompt string `json:"system_prompt"`
	MainPrompt   string `json:"main_prompt"`
	RawReply     string `json:"raw_reply"`

	Options   core.Options `json:"options"`
	CreatedAt time.Time    `json:"created_at"`
}

// Placeholder reports whether the result consists of generated placeholders
// only.
func (i *Interpretation) Placeholder() bool {
	return i.Result == nil || i.Result.Tier == core.TierDefault
}

// Tier returns the parse tier that produced the result.
func (i *Interpretation) Tier() core.ParseTier {
	if i.Result == nil {
		return core.TierNone
	}
	return i.Result.Tier
}
