package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// DefaultEnvPrefix prefixes environment overrides, e.g. INTERPRET_LLM_MODEL.
const DefaultEnvPrefix = "INTERPRET"

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return NewLoaderWithViper(viper.New())
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: DefaultEnvPrefix,
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (INTERPRET_*)
// 3. Project config (.interpret.yaml in current directory)
// 4. User config (~/.config/interpret/.interpret.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".interpret")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "interpret"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("llm.provider", "anthropic")
	l.v.SetDefault("llm.model", "claude-sonnet-4-20250514")
	l.v.SetDefault("llm.max_tokens", 4096)
	l.v.SetDefault("llm.timeout", "2m")
	l.v.SetDefault("llm.max_retries", 2)

	defaults := core.DefaultOptions()
	l.v.SetDefault("interpret.kind", string(defaults.Kind))
	l.v.SetDefault("interpret.word_limit", defaults.WordLimit)
	l.v.SetDefault("interpret.cutoff", defaults.Cutoff)
	l.v.SetDefault("interpret.n_emergency", defaults.NEmergency)
	l.v.SetDefault("interpret.sort_loadings", defaults.SortLoadings)
	l.v.SetDefault("interpret.hide_low_loadings", defaults.HideLowLoadings)
	l.v.SetDefault("interpret.output_format", string(defaults.OutputFormat))
	l.v.SetDefault("interpret.heading_level", defaults.HeadingLevel)
	l.v.SetDefault("interpret.verbosity", int(defaults.Verbosity))
	l.v.SetDefault("interpret.echo", string(defaults.Echo))

	l.v.SetDefault("server.host", "127.0.0.1")
	l.v.SetDefault("server.port", 8080)
	l.v.SetDefault("server.read_timeout", "30s")
	l.v.SetDefault("server.write_timeout", "5m")
	l.v.SetDefault("server.cors_origins", []string{})
	l.v.SetDefault("server.max_body_bytes", 4<<20)
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Get returns a configuration value by key.
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

// Set sets a configuration value.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// IsSet checks if a key has been set.
func (l *Loader) IsSet(key string) bool {
	return l.v.IsSet(key)
}

// AllSettings returns all settings as a map.
func (l *Loader) AllSettings() map[string]interface{} {
	return l.v.AllSettings()
}
