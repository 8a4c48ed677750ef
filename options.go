package softchip

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// scConfig holds mutable state during SoftChip construction.
type scConfig struct {
	root              string
	host              string
	port              int
	simulate          bool
	sampleTimeout     time.Duration
	shutdownTimeout   time.Duration
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	metricsPath       string
	logger            *slog.Logger
}

// Option is a function that configures a [SoftChip] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*scConfig) error

// WithRoot sets the directory served to clients. Required.
//
// The path is resolved to an absolute, symlink-free directory once, in [New].
func WithRoot(dir string) Option {
	return func(cfg *scConfig) error {
		if strings.TrimSpace(dir) == "" {
			return errors.New("root must not be empty")
		}
		cfg.root = dir
		return nil
	}
}

// WithHost sets the interface to bind. Defaults to all interfaces.
func WithHost(host string) Option {
	return func(cfg *scConfig) error {
		cfg.host = host
		return nil
	}
}

// WithPort sets the HTTP server port.
//
// Defaults to 3000 if not specified.
//
// Returns an error if the port is outside 1-65535.
func WithPort(port int) Option {
	return func(cfg *scConfig) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("port must be between 1 and 65535, got %d", port)
		}
		cfg.port = port
		return nil
	}
}

// WithSimulation forces synthetic stats when enabled, skipping capability
// detection.
func WithSimulation(enabled bool) Option {
	return func(cfg *scConfig) error {
		cfg.simulate = enabled
		return nil
	}
}

// WithSampleTimeout bounds one live stats sample. Defaults to 500ms.
//
// Returns an error if the duration is zero or negative.
func WithSampleTimeout(d time.Duration) Option {
	return func(cfg *scConfig) error {
		if d <= 0 {
			return errors.New("sample timeout must be positive")
		}
		cfg.sampleTimeout = d
		return nil
	}
}

// WithShutdownTimeout bounds graceful shutdown. Defaults to 5s.
//
// Returns an error if the duration is zero or negative.
func WithShutdownTimeout(d time.Duration) Option {
	return func(cfg *scConfig) error {
		if d <= 0 {
			return errors.New("shutdown timeout must be positive")
		}
		cfg.shutdownTimeout = d
		return nil
	}
}

// WithConnTimeouts enables per-connection deadlines. Zero disables a
// deadline, which is also the default: a slow client may hold its
// connection for as long as it likes.
//
// Returns an error if either duration is negative.
func WithConnTimeouts(readHeader, write time.Duration) Option {
	return func(cfg *scConfig) error {
		if readHeader < 0 || write < 0 {
			return errors.New("connection timeouts cannot be negative")
		}
		cfg.readHeaderTimeout = readHeader
		cfg.writeTimeout = write
		return nil
	}
}

// WithMetricsPath exposes Prometheus metrics at path, e.g. "/metrics".
// A file of the same name under the root is shadowed.
func WithMetricsPath(path string) Option {
	return func(cfg *scConfig) error {
		if !strings.HasPrefix(path, "/") || path == "/" {
			return fmt.Errorf("metrics path must start with '/' and name a resource, got %q", path)
		}
		cfg.metricsPath = path
		return nil
	}
}

// WithLogger sets a custom logger for startup and shutdown events.
//
// If not specified, slog.Default() is used. Individual requests are never
// logged.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *scConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}
