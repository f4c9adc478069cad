// Package config loads interpret settings from defaults, config files,
// environment variables and CLI flags.
package config

import (
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Interpret InterpretConfig `mapstructure:"interpret" yaml:"interpret"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LLMConfig selects the language model provider.
type LLMConfig struct {
	Provider    string   `mapstructure:"provider" yaml:"provider"`
	Model       string   `mapstructure:"model" yaml:"model"`
	BaseURL     string   `mapstructure:"base_url" yaml:"base_url"`
	APIKey      string   `mapstructure:"api_key" yaml:"api_key,omitempty"`
	MaxTokens   int      `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature *float64 `mapstructure:"temperature" yaml:"temperature,omitempty"`
	Timeout     string   `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries  int      `mapstructure:"max_retries" yaml:"max_retries"`
}

// TimeoutDuration parses Timeout. An empty value means no timeout.
func (c LLMConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Timeout)
}

// InterpretConfig holds the default interpretation options. Verbosity is
// kept loosely typed so that legacy boolean values still load.
type InterpretConfig struct {
	Kind            string      `mapstructure:"kind" yaml:"kind"`
	WordLimit       int         `mapstructure:"word_limit" yaml:"word_limit"`
	Cutoff          float64     `mapstructure:"cutoff" yaml:"cutoff"`
	NEmergency      int         `mapstructure:"n_emergency" yaml:"n_emergency"`
	SortLoadings    bool        `mapstructure:"sort_loadings" yaml:"sort_loadings"`
	HideLowLoadings bool        `mapstructure:"hide_low_loadings" yaml:"hide_low_loadings"`
	AdditionalInfo  string      `mapstructure:"additional_info" yaml:"additional_info"`
	OutputFormat    string      `mapstructure:"output_format" yaml:"output_format"`
	HeadingLevel    int         `mapstructure:"heading_level" yaml:"heading_level"`
	Verbosity       interface{} `mapstructure:"verbosity" yaml:"verbosity"`
	Echo            string      `mapstructure:"echo" yaml:"echo"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host         string   `mapstructure:"host" yaml:"host"`
	Port         int      `mapstructure:"port" yaml:"port"`
	ReadTimeout  string   `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout string   `mapstructure:"write_timeout" yaml:"write_timeout"`
	CORSOrigins  []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	MaxBodyBytes int64    `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ToOptions converts the interpret section into request options. Unknown
// kind identifiers are passed through so that lookup can report them.
func (c InterpretConfig) ToOptions() (core.Options, error) {
	verbosity, err := core.NormalizeVerbosity(c.Verbosity)
	if err != nil {
		return core.Options{}, err
	}
	kind, _ := core.ParseKind(c.Kind)
	return core.Options{
		Kind:            kind,
		WordLimit:       c.WordLimit,
		Cutoff:          c.Cutoff,
		NEmergency:      c.NEmergency,
		SortLoadings:    c.SortLoadings,
		HideLowLoadings: c.HideLowLoadings,
		AdditionalInfo:  c.AdditionalInfo,
		OutputFormat:    core.OutputFormat(c.OutputFormat),
		HeadingLevel:    c.HeadingLevel,
		Verbosity:       verbosity,
		Echo:            core.EchoMode(c.Echo),
	}, nil
}
