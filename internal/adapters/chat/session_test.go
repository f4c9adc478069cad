package chat

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

type fakeBackend struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	requests []Request
	in, out  int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Complete(_ context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	reply := "ok"
	if len(f.replies) > 0 {
		reply = f.replies[0]
		f.replies = f.replies[1:]
	}
	return &Response{Text: reply, InputTokens: f.in, OutputTokens: f.out}, nil
}

func TestConversation_RecordAndCounts(t *testing.T) {
	c := NewConversation("sys", nil)
	c.Record("p1", "r1", 10, 4)
	c.Record("p2", "r2", 0, 0)

	assert.Equal(t, "sys", c.System())
	assert.Len(t, c.Turns(), 4)
	assert.Equal(t, core.TokenCounts{core.RoleUser: 10, core.RoleAssistant: 4}, c.TokenCounts())
}

func TestConversation_TurnsIsACopy(t *testing.T) {
	c := NewConversation("", nil)
	c.Record("p", "r", 1, 1)

	turns := c.Turns()
	turns[0].Content = "changed"

	assert.Equal(t, "p", c.Turns()[0].Content)
}

func TestConversation_EchoModes(t *testing.T) {
	tests := []struct {
		mode core.EchoMode
		want string
	}{
		{core.EchoNone, ""},
		{core.EchoOutput, "reply\n"},
		{core.EchoAll, "prompt\n\nreply\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var buf bytes.Buffer
			NewConversation("", &buf).Echo(tt.mode, "prompt", "reply")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSession_SendRecordsTurnsAndUsage(t *testing.T) {
	backend := &fakeBackend{replies: []string{"first", "second"}, in: 12, out: 5}
	s := NewSession(backend, NewConversation("system prompt", nil), SessionOptions{Model: "m"})

	reply, err := s.Send(context.Background(), "hello", core.EchoNone)
	require.NoError(t, err)
	assert.Equal(t, "first", reply)

	_, err = s.Send(context.Background(), "again", core.EchoNone)
	require.NoError(t, err)

	require.Len(t, backend.requests, 2)
	second := backend.requests[1]
	assert.Equal(t, "system prompt", second.System)
	assert.Equal(t, "m", second.Model)
	assert.Equal(t, DefaultMaxTokens, second.MaxTokens)
	assert.Equal(t, []core.Message{
		{Role: core.RoleUser, Content: "hello"},
		{Role: core.RoleAssistant, Content: "first"},
		{Role: core.RoleUser, Content: "again"},
	}, second.Messages)

	assert.Equal(t, core.TokenCounts{core.RoleUser: 24, core.RoleAssistant: 10}, s.TokenCounts())
	assert.Equal(t, "fake", s.Provider())
	assert.Equal(t, "m", s.Model())
}

func TestSession_FailedSendLeavesConversationUnchanged(t *testing.T) {
	backend := &fakeBackend{errs: []error{core.ErrValidation("BAD", "bad request")}, in: 3, out: 3}
	s := NewSession(backend, NewConversation("", nil), SessionOptions{Model: "m"})

	_, err := s.Send(context.Background(), "hello", core.EchoNone)
	require.Error(t, err)

	assert.Empty(t, s.Turns())
	assert.Empty(t, s.TokenCounts())
}

func TestSession_RetriesTransientFailures(t *testing.T) {
	backend := &fakeBackend{
		errs:    []error{providerError("fake", 429, "slow down", nil), nil},
		replies: []string{"done"},
	}
	policy := NewRetryPolicy(WithMaxAttempts(3), WithBaseDelay(time.Millisecond))
	s := NewSession(backend, NewConversation("", nil), SessionOptions{Model: "m", Retry: policy})

	reply, err := s.Send(context.Background(), "hello", core.EchoNone)
	require.NoError(t, err)
	assert.Equal(t, "done", reply)
	assert.Len(t, backend.requests, 2)
}

func TestSession_ForkIsIndependent(t *testing.T) {
	backend := &fakeBackend{in: 7, out: 2}
	parent := NewSession(backend, NewConversation("parent", nil), SessionOptions{Model: "m"})
	_, err := parent.Send(context.Background(), "warm up", core.EchoNone)
	require.NoError(t, err)

	fork := parent.Fork("child")
	assert.Empty(t, fork.TokenCounts())
	assert.Equal(t, parent.Model(), fork.Model())
	assert.Equal(t, parent.Provider(), fork.Provider())

	_, err = fork.Send(context.Background(), "question", core.EchoNone)
	require.NoError(t, err)

	last := backend.requests[len(backend.requests)-1]
	assert.Equal(t, "child", last.System)
	assert.Len(t, last.Messages, 1)

	assert.Len(t, parent.Turns(), 2)
	assert.Equal(t, core.TokenCounts{core.RoleUser: 7, core.RoleAssistant: 2}, parent.TokenCounts())
	assert.Equal(t, core.TokenCounts{core.RoleUser: 7, core.RoleAssistant: 2}, fork.TokenCounts())
}

func TestSession_EchoesReply(t *testing.T) {
	var buf bytes.Buffer
	backend := &fakeBackend{replies: []string{"the reply"}}
	s := NewSession(backend, NewConversation("", &buf), SessionOptions{Model: "m"})

	_, err := s.Send(context.Background(), "the prompt", core.EchoOutput)
	require.NoError(t, err)
	assert.Equal(t, "the reply\n", buf.String())
}

func TestFlattenTurns(t *testing.T) {
	assert.Equal(t, "only", flattenTurns([]core.Message{{Role: core.RoleUser, Content: "only"}}))
	assert.Equal(t, "User: a\n\nAssistant: b\n\nUser: c", flattenTurns([]core.Message{
		{Role: core.RoleUser, Content: "a"},
		{Role: core.RoleAssistant, Content: "b"},
		{Role: core.RoleUser, Content: "c"},
	}))
}
