// Package main is the entry point for the softchip CLI.
//
// softchip can be run either as a library (SDK) or as a standalone binary
// with an optional YAML or TOML configuration file. This CLI provides the
// standalone binary approach.
//
// Usage:
//
//	softchip serve                    # serve ./build on port 3000
//	softchip serve -c softchip.yaml   # serve with a config file
//	softchip validate -c softchip.yaml
//	softchip version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "softchip",
	Short: "A local front-end server with live host stats",
	Long: `softchip serves a pre-built web front-end from one directory and a live
host stats resource at /api/stats.

Quick start:
  1. Build your front-end into ./build
  2. Run: softchip serve
  3. Open http://localhost:3000/index.html in your browser

Example config:
  port: 3000
  root: ./build
  metrics_path: /metrics
  log_level: info`,
	SilenceUsage: true,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this softchip binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("softchip %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
