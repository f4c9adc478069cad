package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// MockCall records a call to a mock.
type MockCall struct {
	Method    string
	Args      interface{}
	Timestamp time.Time
}

// MockChatSession implements core.ChatSession for testing. Replies are
// served in order and the last one repeats. Every Send adds the configured
// usage to the token counters.
type MockChatSession struct {
	provider     string
	model        string
	systemPrompt string
	replies      []string
	next         int
	sendFunc     func(context.Context, string) (string, error)
	inputTokens  int
	outputTokens int
	counts       core.TokenCounts
	prompts      []string
	forks        []*MockChatSession
	calls        []MockCall
	closed       bool
	mu           sync.Mutex
}

// NewMockChatSession creates a mock session that replies "{}" and reports
// 100 input and 50 output tokens per exchange.
func NewMockChatSession(provider, model string) *MockChatSession {
	return &MockChatSession{
		provider:     provider,
		model:        model,
		replies:      []string{"{}"},
		inputTokens:  100,
		outputTokens: 50,
		counts:       core.TokenCounts{},
	}
}

// WithReplies scripts the replies returned by Send.
func (m *MockChatSession) WithReplies(replies ...string) *MockChatSession {
	m.replies = append([]string(nil), replies...)
	m.next = 0
	return m
}

// WithSendFunc sets a custom send function. It takes precedence over
// scripted replies.
func (m *MockChatSession) WithSendFunc(fn func(context.Context, string) (string, error)) *MockChatSession {
	m.sendFunc = fn
	return m
}

// WithError configures Send to fail.
func (m *MockChatSession) WithError(err error) *MockChatSession {
	m.sendFunc = func(context.Context, string) (string, error) {
		return "", err
	}
	return m
}

// WithUsage sets the tokens reported per exchange. Zero means the provider
// does not report that count.
func (m *MockChatSession) WithUsage(input, output int) *MockChatSession {
	m.inputTokens = input
	m.outputTokens = output
	return m
}

// WithSystemPrompt sets the session's system prompt.
func (m *MockChatSession) WithSystemPrompt(s string) *MockChatSession {
	m.systemPrompt = s
	return m
}

// Send records the prompt and returns the next scripted reply.
func (m *MockChatSession) Send(ctx context.Context, prompt string, echo core.EchoMode) (string, error) {
	m.recordCall("Send", prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	fn := m.sendFunc
	m.mu.Unlock()

	var (
		reply string
		err   error
	)
	if fn != nil {
		reply, err = fn(ctx, prompt)
	} else {
		reply = m.nextReply()
	}
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.counts[core.RoleUser] += m.inputTokens
	m.counts[core.RoleAssistant] += m.outputTokens
	m.mu.Unlock()
	return reply, nil
}

func (m *MockChatSession) nextReply() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.replies) == 0 {
		return ""
	}
	i := m.next
	if i >= len(m.replies) {
		i = len(m.replies) - 1
	} else {
		m.next++
	}
	return m.replies[i]
}

// TokenCounts returns a copy of the cumulative counters.
func (m *MockChatSession) TokenCounts() core.TokenCounts {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(core.TokenCounts, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// Provider returns the provider name.
func (m *MockChatSession) Provider() string { return m.provider }

// Model returns the model name.
func (m *MockChatSession) Model() string { return m.model }

// SystemPrompt returns the system prompt the session was created with.
func (m *MockChatSession) SystemPrompt() string { return m.systemPrompt }

// Fork returns a fresh mock with the same script and usage, the given system
// prompt, no recorded prompts and zeroed counters.
func (m *MockChatSession) Fork(systemPrompt string) core.ChatSession {
	m.recordCall("Fork", systemPrompt)

	m.mu.Lock()
	defer m.mu.Unlock()
	fork := &MockChatSession{
		provider:     m.provider,
		model:        m.model,
		systemPrompt: systemPrompt,
		replies:      append([]string(nil), m.replies...),
		sendFunc:     m.sendFunc,
		inputTokens:  m.inputTokens,
		outputTokens: m.outputTokens,
		counts:       core.TokenCounts{},
	}
	m.forks = append(m.forks, fork)
	return fork
}

// Forks returns the sessions forked from this one.
func (m *MockChatSession) Forks() []*MockChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockChatSession(nil), m.forks...)
}

// Prompts returns the prompts sent so far.
func (m *MockChatSession) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Close marks the session closed.
func (m *MockChatSession) Close() error {
	m.recordCall("Close", nil)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockChatSession) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Calls returns recorded calls.
func (m *MockChatSession) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall{}, m.calls...)
}

// CallCount returns number of calls to a method.
func (m *MockChatSession) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

func (m *MockChatSession) recordCall(method string, args interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Args:      args,
		Timestamp: time.Now(),
	})
}

// MockSessionFactory implements core.SessionFactory by handing out forks of
// a template session.
type MockSessionFactory struct {
	Template *MockChatSession
	Err      error

	created []*MockChatSession
	mu      sync.Mutex
}

// NewSession forks the template with systemPrompt.
func (f *MockSessionFactory) NewSession(_ context.Context, systemPrompt string) (core.ChatSession, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	s := f.Template.Fork(systemPrompt).(*MockChatSession)
	f.mu.Lock()
	f.created = append(f.created, s)
	f.mu.Unlock()
	return s, nil
}

// Created returns the sessions handed out so far.
func (f *MockSessionFactory) Created() []*MockChatSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*MockChatSession(nil), f.created...)
}

// MockExtractor implements core.ModelExtractor for testing.
type MockExtractor struct {
	ExtractFunc func(ctx context.Context, model interface{}, kind core.AnalysisKind) (map[string]interface{}, error)

	calls int
	mu    sync.Mutex
}

// Extract calls ExtractFunc, or fails when none is set.
func (m *MockExtractor) Extract(ctx context.Context, model interface{}, kind core.AnalysisKind) (map[string]interface{}, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.ExtractFunc == nil {
		return nil, core.ErrValidation(core.CodeUnsupportedModel, "no model extraction configured")
	}
	return m.ExtractFunc(ctx, model, kind)
}

// Calls returns the number of Extract calls.
func (m *MockExtractor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
