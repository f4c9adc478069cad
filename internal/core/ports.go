package core

import (
	"context"
	"fmt"
)

// =============================================================================
// Chat Session Port
// =============================================================================

// Message roles used in conversations and token accounting.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenCounts maps a role to the cumulative number of tokens a provider
// reported for it. Providers that do not report usage leave entries at zero.
type TokenCounts map[string]int

// ChatSession is the narrow contract the pipeline needs from a language
// model conversation.
type ChatSession interface {
	// Send appends prompt as a user turn, waits for the reply and returns it.
	Send(ctx context.Context, prompt string, echo EchoMode) (string, error)

	// TokenCounts returns cumulative token usage per role.
	TokenCounts() TokenCounts

	// Provider returns the provider identifier (e.g., "anthropic").
	Provider() string

	// Model returns the model identifier.
	Model() string

	// Fork returns an independent session with the same provider settings,
	// the given system prompt, no prior turns and zeroed token counts.
	// The receiver is never modified.
	Fork(systemPrompt string) ChatSession
}

// SessionFactory creates ad hoc chat sessions.
type SessionFactory interface {
	NewSession(ctx context.Context, systemPrompt string) (ChatSession, error)
}

// SessionFactoryFunc adapts a function to SessionFactory.
type SessionFactoryFunc func(ctx context.Context, systemPrompt string) (ChatSession, error)

// NewSession calls f.
func (f SessionFactoryFunc) NewSession(ctx context.Context, systemPrompt string) (ChatSession, error) {
	return f(ctx, systemPrompt)
}

// =============================================================================
// Model Extraction Port
// =============================================================================

// ModelExtractor turns a fitted third-party model handle into the raw
// structure expected by a kind's data builder.
type ModelExtractor interface {
	Extract(ctx context.Context, model interface{}, kind AnalysisKind) (map[string]interface{}, error)
}

// =============================================================================
// Token accounting
// =============================================================================

// TokenUsage records the tokens consumed by one request. A count is
// unknown when the provider did not report it; unknown is not an error.
type TokenUsage struct {
	Input       int  `json:"input"`
	Output      int  `json:"output"`
	InputKnown  bool `json:"input_known"`
	OutputKnown bool `json:"output_known"`
}

// UsageBetween computes the usage of a single exchange from the session's
// counters before and after it.
func UsageBetween(before, after TokenCounts) TokenUsage {
	in := after[RoleUser] - before[RoleUser]
	out := after[RoleAssistant] - before[RoleAssistant]
	return TokenUsage{
		Input:       max(in, 0),
		Output:      max(out, 0),
		InputKnown:  in > 0,
		OutputKnown: out > 0,
	}
}

// Total returns the sum of known counts.
func (u TokenUsage) Total() int {
	return u.Input + u.Output
}

// String renders the usage with "unknown" for unreported counts.
func (u TokenUsage) String() string {
	return fmt.Sprintf("input %s, output %s", countString(u.Input, u.InputKnown), countString(u.Output, u.OutputKnown))
}

func countString(n int, known bool) string {
	if !known {
		return "unknown"
	}
	return fmt.Sprintf("%d", n)
}
