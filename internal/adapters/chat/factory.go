package chat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sahilm/fuzzy"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/logging"
)

// Supported providers.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderLMStudio   = "lmstudio"
	ProviderOllama     = "ollama"
)

var defaultBaseURLs = map[string]string{
	ProviderOpenAI:     "https://api.openai.com/v1",
	ProviderOpenRouter: "https://openrouter.ai/api/v1",
	ProviderLMStudio:   "http://localhost:1234/v1",
	ProviderOllama:     "http://localhost:11434",
}

var apiKeyEnv = map[string]string{
	ProviderAnthropic:  "ANTHROPIC_API_KEY",
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderOpenRouter: "OPENROUTER_API_KEY",
}

// Providers returns the supported provider names in sorted order.
func Providers() []string {
	names := []string{ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter, ProviderLMStudio, ProviderOllama}
	sort.Strings(names)
	return names
}

// Config selects and tunes a provider.
type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature *float64
	Timeout     time.Duration
	MaxRetries  int
	Echo        io.Writer
}

// Factory creates chat sessions for one configured provider. It implements
// core.SessionFactory.
type Factory struct {
	cfg     Config
	backend Backend
	retry   *RetryPolicy
	logger  *logging.Logger
}

// NewFactory validates cfg and builds the provider backend.
func NewFactory(cfg Config, logger *logging.Logger) (*Factory, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Model == "" {
		return nil, core.ErrInvalidOption("llm.model", "a non-empty model identifier", cfg.Model)
	}
	if cfg.MaxRetries < 0 {
		return nil, core.ErrInvalidOption("llm.max_retries", "a non-negative integer", cfg.MaxRetries)
	}
	if cfg.APIKey == "" {
		if env, ok := apiKeyEnv[cfg.Provider]; ok {
			cfg.APIKey = os.Getenv(env)
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURLs[cfg.Provider]
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	return &Factory{
		cfg:     cfg,
		backend: backend,
		retry:   NewRetryPolicy(WithMaxAttempts(cfg.MaxRetries + 1)),
		logger:  logger,
	}, nil
}

// NewFactoryWithBackend wraps an already constructed backend.
func NewFactoryWithBackend(backend Backend, cfg Config, logger *logging.Logger) *Factory {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Factory{
		cfg:     cfg,
		backend: backend,
		retry:   NewRetryPolicy(WithMaxAttempts(cfg.MaxRetries + 1)),
		logger:  logger,
	}
}

func newBackend(cfg Config) (Backend, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicBackend(cfg.APIKey, cfg.BaseURL, option.WithHTTPClient(httpClient)), nil
	case ProviderOpenAI, ProviderOpenRouter, ProviderLMStudio:
		if cfg.APIKey == "" && cfg.Provider != ProviderLMStudio {
			return nil, core.ErrConfig(core.CodeInvalidOption,
				fmt.Sprintf("%s requires an API key (set llm.api_key or %s)", cfg.Provider, apiKeyEnv[cfg.Provider]))
		}
		return NewOpenAIBackend(cfg.Provider, httpClient, cfg.APIKey, cfg.BaseURL), nil
	case ProviderOllama:
		return NewOllamaBackend(cfg.BaseURL)
	}

	msg := fmt.Sprintf("llm.provider must be one of %s (got %q)", strings.Join(Providers(), ", "), cfg.Provider)
	if matches := fuzzy.Find(cfg.Provider, Providers()); len(matches) > 0 && cfg.Provider != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", matches[0].Str)
	}
	return nil, core.ErrConfig(core.CodeInvalidOption, msg).WithDetail("field", "llm.provider")
}

// NewSession starts a conversation under systemPrompt.
func (f *Factory) NewSession(_ context.Context, systemPrompt string) (core.ChatSession, error) {
	return f.Session(systemPrompt), nil
}

// Session is NewSession with the concrete return type.
func (f *Factory) Session(systemPrompt string) *Session {
	return NewSession(f.backend, NewConversation(systemPrompt, f.cfg.Echo), SessionOptions{
		Model:       f.cfg.Model,
		MaxTokens:   f.cfg.MaxTokens,
		Temperature: f.cfg.Temperature,
		Retry:       f.retry,
		Logger:      f.logger,
	})
}

// Provider returns the configured provider name.
func (f *Factory) Provider() string {
	return f.backend.Name()
}

// Model returns the configured model.
func (f *Factory) Model() string {
	return f.cfg.Model
}
