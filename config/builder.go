package config

import (
	"github.com/vedsaas/softchip"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The logger is not part of the file format; callers append
// [softchip.WithLogger] themselves.
func BuildOptions(cfg *Config) []softchip.Option {
	opts := []softchip.Option{
		softchip.WithRoot(cfg.Root),
		softchip.WithHost(cfg.Host),
		softchip.WithPort(cfg.Port),
		softchip.WithSimulation(cfg.Simulate),
		softchip.WithSampleTimeout(cfg.SampleTimeout.Duration()),
		softchip.WithShutdownTimeout(cfg.ShutdownTimeout.Duration()),
		softchip.WithConnTimeouts(cfg.ReadHeaderTimeout.Duration(), cfg.WriteTimeout.Duration()),
	}

	if cfg.MetricsPath != "" {
		opts = append(opts, softchip.WithMetricsPath(cfg.MetricsPath))
	}

	return opts
}
