package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vedsaas/softchip"
	"github.com/vedsaas/softchip/config"
)

// shutdownGrace is added on top of the configured shutdown timeout before
// the CLI gives up waiting for Start to return.
const shutdownGrace = 5 * time.Second

// newLogger creates the CLI logger. JSON unless the config asks for text.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// serveCmd starts the softchip server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the front-end server",
	Long: `Start the softchip front-end server.

The server will:
  - Load configuration from the specified file, if any
  - Apply command-line overrides
  - Detect whether host metrics can be read
  - Serve the root directory and /api/stats on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  softchip serve
  softchip serve --root ./dist --port 8080
  softchip serve -c /etc/softchip/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (YAML, or TOML with .toml extension)")
	serveCmd.Flags().String("host", "", "interface to bind (default all interfaces)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default 3000)")
	serveCmd.Flags().StringP("root", "r", "", "directory to serve (default ./build)")
	serveCmd.Flags().Bool("simulate", false, "serve simulated stats even if host metrics are available")
	serveCmd.Flags().String("metrics-path", "", "expose Prometheus metrics at this path")
}

// loadServeConfig reads the optional config file and applies flag overrides.
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("root") {
		cfg.Root, _ = flags.GetString("root")
	}
	if flags.Changed("simulate") {
		cfg.Simulate, _ = flags.GetBool("simulate")
	}
	if flags.Changed("metrics-path") {
		cfg.MetricsPath, _ = flags.GetString("metrics-path")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg)
	logger.Info("softchip starting",
		"version", version,
		"root", cfg.Root,
		"port", cfg.Port,
	)

	opts := append(config.BuildOptions(cfg), softchip.WithLogger(logger))
	sc, err := softchip.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create softchip: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- sc.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		wait := cfg.ShutdownTimeout.Duration() + shutdownGrace
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(wait):
			logger.Warn("shutdown timed out",
				"timeout", wait.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
