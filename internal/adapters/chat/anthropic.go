package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// AnthropicBackend calls the Anthropic Messages API through the official
// SDK. The SDK's own retries are disabled so that RetryPolicy is the only
// retry layer.
type AnthropicBackend struct {
	client anthropic.Client
}

// NewAnthropicBackend creates a backend. An empty apiKey falls back to the
// SDK's ANTHROPIC_API_KEY lookup; an empty baseURL uses the public API.
func NewAnthropicBackend(apiKey, baseURL string, opts ...option.RequestOption) *AnthropicBackend {
	all := []option.RequestOption{option.WithMaxRetries(0)}
	if apiKey != "" {
		all = append(all, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)
	return &AnthropicBackend{client: anthropic.NewClient(all...)}
}

// Name returns "anthropic".
func (b *AnthropicBackend) Name() string {
	return ProviderAnthropic
}

// Complete sends req as a Messages API call.
func (b *AnthropicBackend) Complete(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  make([]anthropic.MessageParam, 0, len(req.Messages)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == core.RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}

	message, err := b.client.Messages.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, providerError(ProviderAnthropic, apiErr.StatusCode, "", err)
		}
		return nil, providerError(ProviderAnthropic, 0, "", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("anthropic reply (stop reason %q) has no text content", message.StopReason)
	}

	return &Response{
		Text:         text.String(),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}
