package chat

import (
	"context"
	"time"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/logging"
)

// DefaultMaxTokens caps replies when no limit is configured.
const DefaultMaxTokens = 4096

// Request is one completion request sent to a backend.
type Request struct {
	Model       string
	System      string
	Messages    []core.Message
	MaxTokens   int
	Temperature *float64
}

// Response is a backend's reply. Token counts are zero when the provider
// does not report them.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Backend performs a single completion against a provider.
type Backend interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// SessionOptions configures a session.
type SessionOptions struct {
	Model       string
	MaxTokens   int
	Temperature *float64
	Retry       *RetryPolicy
	Logger      *logging.Logger
}

// Session implements core.ChatSession on top of a Backend.
type Session struct {
	backend     Backend
	model       string
	maxTokens   int
	temperature *float64
	retry       *RetryPolicy
	conv        *Conversation
	logger      *logging.Logger
}

// NewSession creates a session over backend.
func NewSession(backend Backend, conv *Conversation, opts SessionOptions) *Session {
	if opts.Retry == nil {
		opts.Retry = NewRetryPolicy(WithMaxAttempts(1))
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Session{
		backend:     backend,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		retry:       opts.Retry,
		conv:        conv,
		logger:      opts.Logger.WithProvider(backend.Name(), opts.Model),
	}
}

// Send appends prompt as a user turn and returns the reply. A failed
// exchange leaves the conversation unchanged.
func (s *Session) Send(ctx context.Context, prompt string, echo core.EchoMode) (string, error) {
	req := Request{
		Model:       s.model,
		System:      s.conv.System(),
		Messages:    append(s.conv.Turns(), core.Message{Role: core.RoleUser, Content: prompt}),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	var resp *Response
	err := s.retry.ExecuteWithNotify(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.backend.Complete(ctx, req)
		return err
	}, func(attempt int, err error, delay time.Duration) {
		s.logger.Warn("chat call failed, retrying", "attempt", attempt, "delay", delay.String(), "error", err)
	})
	if err != nil {
		return "", err
	}

	s.conv.Record(prompt, resp.Text, resp.InputTokens, resp.OutputTokens)
	s.conv.Echo(echo, prompt, resp.Text)
	s.logger.Debug("chat exchange complete", "input_tokens", resp.InputTokens, "output_tokens", resp.OutputTokens)
	return resp.Text, nil
}

// TokenCounts returns cumulative usage per role.
func (s *Session) TokenCounts() core.TokenCounts {
	return s.conv.TokenCounts()
}

// Provider returns the backend name.
func (s *Session) Provider() string {
	return s.backend.Name()
}

// Model returns the model identifier.
func (s *Session) Model() string {
	return s.model
}

// Turns returns the conversation so far.
func (s *Session) Turns() []core.Message {
	return s.conv.Turns()
}

// Fork returns a session sharing the backend and settings with an empty
// conversation under systemPrompt. s is not modified.
func (s *Session) Fork(systemPrompt string) core.ChatSession {
	fork := *s
	fork.conv = s.conv.Fork(systemPrompt)
	return &fork
}
