package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/api"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/config"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Endpoints:
  GET  /healthz
  GET  /api/v1/kinds
  POST /api/v1/interpret
  GET  /api/v1/metrics

Request options default to the interpret section of the configuration.

Examples:
  # Start with defaults (127.0.0.1:8080)
  interpret serve

  # Start on custom host and port
  interpret serve --host 0.0.0.0 --port 3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Host address to bind to (default from config)")
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().String("provider", "", "LLM provider")
	serveCmd.Flags().String("model", "", "LLM model identifier")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	readTimeout, writeTimeout, err := serverTimeouts(cfg.Server)
	if err != nil {
		return err
	}

	// Echo goes nowhere: concurrent requests would interleave.
	cfg.Interpret.Echo = string(core.EchoNone)
	a, err := newApp(cfg, logger, nil)
	if err != nil {
		return err
	}

	srv := api.NewServer(a.interpreter,
		api.WithLogger(logger),
		api.WithDefaults(a.opts),
		api.WithCORSOrigins(cfg.Server.CORSOrigins),
		api.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		api.WithRequestTimeout(writeTimeout),
	)
	return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr(), readTimeout, writeTimeout)
}

func serverTimeouts(cfg config.ServerConfig) (read, write time.Duration, err error) {
	if cfg.ReadTimeout != "" {
		if read, err = time.ParseDuration(cfg.ReadTimeout); err != nil {
			return 0, 0, core.ErrInvalidOption("server.read_timeout", "a duration", cfg.ReadTimeout)
		}
	}
	if cfg.WriteTimeout != "" {
		if write, err = time.ParseDuration(cfg.WriteTimeout); err != nil {
			return 0, 0, core.ErrInvalidOption("server.write_timeout", "a duration", cfg.WriteTimeout)
		}
	}
	return read, write, nil
}
