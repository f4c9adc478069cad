package chat

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/JexSrs/go-ollama"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// OllamaBackend calls a local Ollama server through its generate endpoint.
// Ollama does not report token usage there, so counts stay unknown.
type OllamaBackend struct {
	client *ollama.Ollama
}

// NewOllamaBackend creates a backend for the server at host.
func NewOllamaBackend(host string) (*OllamaBackend, error) {
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, core.ErrInvalidOption("llm.base_url", "an absolute URL such as http://localhost:11434", host)
	}
	return &OllamaBackend{client: ollama.New(*u)}, nil
}

// Name returns "ollama".
func (b *OllamaBackend) Name() string {
	return ProviderOllama
}

type ollamaResult struct {
	text string
	err  error
}

// Complete runs a non-streaming generate call. The client library has no
// context support, so cancellation abandons the call instead of aborting it.
func (b *OllamaBackend) Complete(ctx context.Context, req Request) (*Response, error) {
	prompt := flattenTurns(req.Messages)

	done := make(chan ollamaResult, 1)
	go func() {
		res, err := b.client.Generate(
			b.client.Generate.WithModel(req.Model),
			b.client.Generate.WithSystem(req.System),
			b.client.Generate.WithPrompt(prompt),
		)
		switch {
		case err != nil:
			done <- ollamaResult{err: providerError(ProviderOllama, 0, "", err)}
		case !res.Done:
			done <- ollamaResult{err: fmt.Errorf("ollama returned an unfinished response")}
		default:
			done <- ollamaResult{text: res.Response}
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return &Response{Text: r.text}, nil
	}
}

// flattenTurns renders a conversation as a single prompt. A lone user turn
// is passed through unchanged.
func flattenTurns(turns []core.Message) string {
	if len(turns) == 1 {
		return turns[0].Content
	}
	var b strings.Builder
	for i, m := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := "User"
		if m.Role == core.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s", label, m.Content)
	}
	return b.String()
}
