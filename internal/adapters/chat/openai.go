package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// OpenAIBackend talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, OpenRouter, LM Studio, vLLM).
type OpenAIBackend struct {
	name       string
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewOpenAIBackend creates a backend reporting itself as name.
func NewOpenAIBackend(name string, httpClient *http.Client, apiKey, baseURL string) *OpenAIBackend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIBackend{
		name:       name,
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the provider name.
func (b *OpenAIBackend) Name() string {
	return b.name
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete posts req to /chat/completions.
func (b *OpenAIBackend) Complete(ctx context.Context, req Request) (*Response, error) {
	body := openAIRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, openAIMessage{Role: core.RoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, openAIMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, providerError(b.name, 0, "", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providerError(b.name, 0, "", fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, providerError(b.name, resp.StatusCode, string(respBody), nil)
	}

	var decoded openAIResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", b.name, err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("%s response has no choices", b.name)
	}

	out := &Response{Text: decoded.Choices[0].Message.Content}
	if decoded.Usage != nil {
		out.InputTokens = decoded.Usage.PromptTokens
		out.OutputTokens = decoded.Usage.CompletionTokens
	}
	return out, nil
}
