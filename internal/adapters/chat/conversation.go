// Package chat implements core.ChatSession for hosted and local language
// model providers.
package chat

import (
	"fmt"
	"io"
	"sync"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// Conversation holds a session's system prompt, turns and cumulative token
// counters. It is safe for concurrent use.
type Conversation struct {
	system string
	turns  []core.Message
	counts core.TokenCounts
	echo   io.Writer
	mu     sync.Mutex
}

// NewConversation creates an empty conversation. Echoed text goes to echo;
// a nil writer disables echoing.
func NewConversation(system string, echo io.Writer) *Conversation {
	return &Conversation{
		system: system,
		counts: core.TokenCounts{},
		echo:   echo,
	}
}

// System returns the system prompt.
func (c *Conversation) System() string {
	return c.system
}

// Turns returns a copy of the conversation's turns.
func (c *Conversation) Turns() []core.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Message(nil), c.turns...)
}

// Record appends a completed exchange and its token usage. Counts of zero
// leave the counters untouched, which marks them unknown to callers.
func (c *Conversation) Record(prompt, reply string, inputTokens, outputTokens int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns,
		core.Message{Role: core.RoleUser, Content: prompt},
		core.Message{Role: core.RoleAssistant, Content: reply})
	if inputTokens > 0 {
		c.counts[core.RoleUser] += inputTokens
	}
	if outputTokens > 0 {
		c.counts[core.RoleAssistant] += outputTokens
	}
}

// TokenCounts returns a copy of the cumulative counters.
func (c *Conversation) TokenCounts() core.TokenCounts {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(core.TokenCounts, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// Echo writes the exchange according to mode.
func (c *Conversation) Echo(mode core.EchoMode, prompt, reply string) {
	if c.echo == nil {
		return
	}
	switch mode {
	case core.EchoAll:
		fmt.Fprintf(c.echo, "%s\n\n%s\n", prompt, reply)
	case core.EchoOutput:
		fmt.Fprintln(c.echo, reply)
	}
}

// Fork returns an empty conversation with a new system prompt and the same
// echo writer.
func (c *Conversation) Fork(system string) *Conversation {
	return NewConversation(system, c.echo)
}
