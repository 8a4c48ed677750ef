// Package config provides YAML and TOML configuration parsing for softchip.
//
// This package enables running softchip as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
// Every field is optional; missing fields keep the values of [Default].
//
// Example configuration:
//
//	host: ""            # all interfaces
//	port: 3000
//	root: ${SOFTCHIP_ROOT:-./build}
//	simulate: false
//	sample_timeout: 500ms
//	shutdown_timeout: 5s
//	metrics_path: /metrics
//	log_level: info
//	log_format: json
//
// Files ending in ".toml" are parsed as TOML with the same keys.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = 3000
	defaultRoot            = "./build"
	defaultSampleTimeout   = 500 * time.Millisecond
	defaultShutdownTimeout = 5 * time.Second

	// maxSampleTimeout keeps the stats endpoint a short, bounded call.
	maxSampleTimeout = 5 * time.Second

	// statsPath is reserved by the server and cannot host metrics.
	statsPath = "/api/stats"
)

// Config is the root configuration structure for softchip.
//
// It maps directly to the configuration file structure.
// Use [Load], [Parse] or [ParseTOML] to create a Config.
type Config struct {
	// Host is the interface to bind. Empty binds all interfaces.
	// Supports environment variable substitution.
	Host string `yaml:"host" toml:"host"`

	// Port is the HTTP server port. Defaults to 3000.
	Port int `yaml:"port" toml:"port"`

	// Root is the directory served to clients. Defaults to ./build.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Root string `yaml:"root" toml:"root"`

	// Simulate forces synthetic stats even when host counters are readable.
	Simulate bool `yaml:"simulate" toml:"simulate"`

	// SampleTimeout bounds a single live stats sample. Defaults to 500ms.
	SampleTimeout Duration `yaml:"sample_timeout" toml:"sample_timeout"`

	// ShutdownTimeout bounds graceful shutdown. Defaults to 5s.
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`

	// ReadHeaderTimeout and WriteTimeout are per-connection deadlines.
	// Zero (the default) disables them.
	ReadHeaderTimeout Duration `yaml:"read_header_timeout" toml:"read_header_timeout"`
	WriteTimeout      Duration `yaml:"write_timeout" toml:"write_timeout"`

	// MetricsPath exposes Prometheus metrics when set, e.g. "/metrics".
	MetricsPath string `yaml:"metrics_path" toml:"metrics_path"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogFormat is json or text. Defaults to json.
	LogFormat string `yaml:"log_format" toml:"log_format"`
}

// Duration wraps time.Duration for YAML and TOML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		Port:            defaultPort,
		Root:            defaultRoot,
		SampleTimeout:   Duration(defaultSampleTimeout),
		ShutdownTimeout: Duration(defaultShutdownTimeout),
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a configuration file. Files with a ".toml"
// extension are parsed as TOML, everything else as YAML.
//
// Environment variables in host and root are expanded after parsing.
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// Parse parses YAML configuration data on top of [Default].
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseTOML parses TOML configuration data on top of [Default].
func ParseTOML(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	host, err := expandEnvVars(c.Host)
	if err != nil {
		return fmt.Errorf("host: %w", err)
	}
	c.Host = host

	root, err := expandEnvVars(c.Root)
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	c.Root = root

	return c.Validate()
}

// Validate checks field ranges. It does not touch the filesystem; a missing
// root is reported when the server is constructed.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if strings.TrimSpace(c.Root) == "" {
		return errors.New("root is required")
	}

	st := c.SampleTimeout.Duration()
	if st <= 0 {
		return fmt.Errorf("sample_timeout must be positive, got %s", st)
	}
	if st > maxSampleTimeout {
		return fmt.Errorf("sample_timeout must not exceed %s, got %s", maxSampleTimeout, st)
	}

	if c.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout.Duration())
	}
	if c.ReadHeaderTimeout.Duration() < 0 {
		return fmt.Errorf("read_header_timeout cannot be negative, got %s", c.ReadHeaderTimeout.Duration())
	}
	if c.WriteTimeout.Duration() < 0 {
		return fmt.Errorf("write_timeout cannot be negative, got %s", c.WriteTimeout.Duration())
	}

	if c.MetricsPath != "" {
		if !strings.HasPrefix(c.MetricsPath, "/") {
			return fmt.Errorf("metrics_path must start with '/', got %q", c.MetricsPath)
		}
		if strings.ContainsAny(c.MetricsPath, "*{}") {
			return fmt.Errorf("metrics_path must be a literal path, got %q", c.MetricsPath)
		}
		if c.MetricsPath == "/" || c.MetricsPath == statsPath {
			return fmt.Errorf("metrics_path %q is reserved", c.MetricsPath)
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}

	return nil
}
