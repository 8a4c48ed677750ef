package softchip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/vedsaas/softchip/internal/sampler"
	"github.com/vedsaas/softchip/internal/server"
	"github.com/vedsaas/softchip/internal/static"
	"github.com/vedsaas/softchip/internal/telemetry"
)

const (
	defaultPort            = 3000
	defaultShutdownTimeout = 5 * time.Second
)

// SoftChip serves a pre-built front-end and a live host stats resource.
//
// It is created using [New] with functional options and started with
// [SoftChip.Start].
//
// The typical lifecycle is:
//
//	sc, err := softchip.New(softchip.WithRoot("./build"))
//	if err != nil {
//	    slog.Error("failed to create softchip", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	sc.Start(ctx) // blocks until context cancelled
type SoftChip struct {
	resolver          *static.Resolver
	host              string
	port              int
	simulate          bool
	sampleTimeout     time.Duration
	shutdownTimeout   time.Duration
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	metricsPath       string
	logger            *slog.Logger

	// source is swapped in tests to pin capability detection
	source sampler.Source
}

// New creates a new [SoftChip] instance with the given options.
//
// [WithRoot] is required and must name an existing directory. Other
// options have defaults:
//   - Host: all interfaces
//   - Port: 3000
//   - Sample timeout: 500ms
//   - Shutdown timeout: 5s
//   - No per-connection deadlines, no metrics endpoint
//
// Example:
//
//	sc, err := softchip.New(
//	    softchip.WithRoot("./build"),
//	    softchip.WithPort(8080),
//	    softchip.WithMetricsPath("/metrics"),
//	)
func New(opts ...Option) (*SoftChip, error) {
	cfg := &scConfig{
		port:            defaultPort,
		sampleTimeout:   sampler.DefaultTimeout,
		shutdownTimeout: defaultShutdownTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.root == "" {
		return nil, errors.New("root is required")
	}
	if cfg.metricsPath == server.StatsPath {
		return nil, fmt.Errorf("metrics path %q collides with the stats resource", cfg.metricsPath)
	}

	resolver, err := static.NewResolver(cfg.root)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SoftChip{
		resolver:          resolver,
		host:              cfg.host,
		port:              cfg.port,
		simulate:          cfg.simulate,
		sampleTimeout:     cfg.sampleTimeout,
		shutdownTimeout:   cfg.shutdownTimeout,
		readHeaderTimeout: cfg.readHeaderTimeout,
		writeTimeout:      cfg.writeTimeout,
		metricsPath:       cfg.metricsPath,
		logger:            logger,
		source:            sampler.HostSource{},
	}, nil
}

// Start binds the listener and serves until the context is cancelled.
//
// Start is a blocking call. Before binding it detects, once, whether host
// metrics can be read and logs the result. After ctx is cancelled it stops
// accepting connections and waits for in-flight responses (bounded by the
// shutdown timeout) before returning.
//
// Returns nil on graceful shutdown. Returns an error if the port cannot be
// bound or if the server stops serving before ctx is cancelled.
func (sc *SoftChip) Start(ctx context.Context) error {
	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	live := !sc.simulate && sampler.Detect(ctx, sc.source)
	sc.logger.Info("metrics capability", "available", live, "forced_simulation", sc.simulate)

	var src sampler.Source
	if live {
		src = sc.source
	}

	var metrics *telemetry.Metrics
	if sc.metricsPath != "" {
		metrics = telemetry.New()
	}

	httpServer := server.NewServer(server.Config{
		Host:              sc.host,
		Port:              sc.port,
		Resolver:          sc.resolver,
		Sampler:           sampler.New(src, sc.sampleTimeout),
		Metrics:           metrics,
		MetricsPath:       sc.metricsPath,
		ReadHeaderTimeout: sc.readHeaderTimeout,
		WriteTimeout:      sc.writeTimeout,
		ShutdownTimeout:   sc.shutdownTimeout,
		Logger:            sc.logger,
	})
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	sc.logger.Info("softchip serving",
		"addr", httpServer.Addr().String(),
		"root", sc.resolver.Root(),
		"url", browseURL(sc.host, sc.port),
	)
	if sc.metricsPath != "" {
		sc.logger.Info("metrics endpoint enabled", "path", sc.metricsPath)
	}

	select {
	case <-ctx.Done():
	case err := <-httpServer.Err():
		<-httpServer.Done()
		return fmt.Errorf("http server stopped unexpectedly: %w", err)
	}

	sc.logger.Info("softchip shutting down")
	<-httpServer.Done()
	sc.logger.Info("softchip stopped")
	return nil
}

// browseURL is the address a browser on this machine should open. Wildcard
// binds are reachable on localhost.
func browseURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// Root returns the absolute served root.
func (sc *SoftChip) Root() string {
	return sc.resolver.Root()
}

// Host returns the configured bind host; empty means all interfaces.
func (sc *SoftChip) Host() string {
	return sc.host
}

// Port returns the configured HTTP port.
func (sc *SoftChip) Port() int {
	return sc.port
}
