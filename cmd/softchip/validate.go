package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vedsaas/softchip/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a softchip configuration file without starting the server.

This command parses the YAML or TOML, expands environment variables, and
validates all fields. It's useful for CI/CD pipelines or pre-deployment checks.
It does not check that the root directory exists.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  softchip validate -c config.yaml
  softchip validate --config /etc/softchip/config.toml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	listen := cfg.Host
	if listen == "" {
		listen = "all interfaces"
	}
	metrics := cfg.MetricsPath
	if metrics == "" {
		metrics = "disabled"
	}
	stats := "auto-detect"
	if cfg.Simulate {
		stats = "simulated"
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Listen:        %s port %d\n", listen, cfg.Port)
	fmt.Printf("  Root:          %s\n", cfg.Root)
	fmt.Printf("  Stats:         %s\n", stats)
	fmt.Printf("  Metrics:       %s\n", metrics)

	return nil
}
