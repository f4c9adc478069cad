package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

func TestNewFactory_Providers(t *testing.T) {
	tests := []struct {
		provider string
		apiKey   string
		baseURL  string
		wantName string
	}{
		{"anthropic", "k", "", ProviderAnthropic},
		{"OpenAI", "k", "", ProviderOpenAI},
		{"openrouter", "k", "", ProviderOpenRouter},
		{"lmstudio", "", "", ProviderLMStudio},
		{"ollama", "", "http://127.0.0.1:11434", ProviderOllama},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			f, err := NewFactory(Config{Provider: tt.provider, Model: "m", APIKey: tt.apiKey, BaseURL: tt.baseURL}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, f.Provider())
			assert.Equal(t, "m", f.Model())

			s, err := f.NewSession(context.Background(), "sys")
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Provider())
			assert.Empty(t, s.TokenCounts())
		})
	}
}

func TestNewFactory_UnknownProviderSuggests(t *testing.T) {
	_, err := NewFactory(Config{Provider: "antropic", Model: "m"}, nil)
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatConfig))
	assert.Contains(t, err.Error(), "llm.provider")
	assert.Contains(t, err.Error(), `did you mean "anthropic"`)
}

func TestNewFactory_RequiresModel(t *testing.T) {
	_, err := NewFactory(Config{Provider: ProviderAnthropic}, nil)
	assert.ErrorContains(t, err, "llm.model")
}

func TestNewFactory_HostedOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewFactory(Config{Provider: ProviderOpenAI, Model: "m"}, nil)
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestNewFactory_KeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "from-env")
	f, err := NewFactory(Config{Provider: ProviderOpenRouter, Model: "m"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", f.cfg.APIKey)
	assert.Equal(t, "https://openrouter.ai/api/v1", f.cfg.BaseURL)
}

func TestNewFactory_OllamaRejectsBadURL(t *testing.T) {
	_, err := NewFactory(Config{Provider: ProviderOllama, Model: "m", BaseURL: "not a url"}, nil)
	assert.ErrorContains(t, err, "llm.base_url")
}

func TestFactory_SessionsShareBackendButNotState(t *testing.T) {
	backend := &fakeBackend{in: 5, out: 1}
	f := NewFactoryWithBackend(backend, Config{Model: "m"}, nil)

	a := f.Session("a")
	b := f.Session("b")
	_, err := a.Send(context.Background(), "hello", core.EchoNone)
	require.NoError(t, err)

	assert.NotEmpty(t, a.TokenCounts())
	assert.Empty(t, b.TokenCounts())
}
