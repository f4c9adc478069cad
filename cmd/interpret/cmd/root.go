package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/adapters/chat"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/config"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	noColor   bool
	quiet     bool

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

// newSessionFactory builds the chat backend. Tests replace it.
var newSessionFactory = func(cfg config.LLMConfig, echo io.Writer, logger *logging.Logger) (core.SessionFactory, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, core.ErrInvalidOption("llm.timeout", "a duration such as 90s or 2m", cfg.Timeout)
	}
	return chat.NewFactory(chat.Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     timeout,
		MaxRetries:  cfg.MaxRetries,
		Echo:        echo,
	}, logger)
}

var rootCmd = &cobra.Command{
	Use:   "interpret",
	Short: "Name and interpret fitted latent-variable models with an LLM",
	Long: `interpret turns the numeric output of a fitted factor analysis or
Gaussian mixture model into named, human readable interpretations.

It builds a prompt from loadings or cluster means, asks a language model
for a name and summary per component, parses the reply (recovering from
malformed output where possible) and renders a report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// GetVersion returns the application version string.
func GetVersion() string {
	return appVersion
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .interpret.yaml, then ~/.config/interpret/)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress progress output")
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":         "log.level",
	"log-format":        "log.format",
	"provider":          "llm.provider",
	"model":             "llm.model",
	"base-url":          "llm.base_url",
	"max-tokens":        "llm.max_tokens",
	"temperature":       "llm.temperature",
	"timeout":           "llm.timeout",
	"kind":              "interpret.kind",
	"word-limit":        "interpret.word_limit",
	"cutoff":            "interpret.cutoff",
	"n-emergency":       "interpret.n_emergency",
	"hide-low-loadings": "interpret.hide_low_loadings",
	"additional-info":   "interpret.additional_info",
	"format":            "interpret.output_format",
	"heading-level":     "interpret.heading_level",
	"verbosity":         "interpret.verbosity",
	"echo":              "interpret.echo",
	"host":              "server.host",
	"port":              "server.port",
}

// loadConfig loads and validates configuration for cmd. Only flags the user
// actually set are bound, so unset flags never shadow config file values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return
		}
		_ = v.BindPFlag(key, f)
	})

	loader := config.NewLoaderWithViper(v)
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// colorEnabled reports whether w should receive ANSI styling.
func colorEnabled(w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
