package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vedsaas/softchip"
)

func main() {
	// write a throwaway front-end (see demo_site.go)
	root, err := writeDemoSite()
	if err != nil {
		slog.Error("failed to create demo site", "error", err)
		os.Exit(1)
	}
	defer os.RemoveAll(root)

	sc, err := softchip.New(
		softchip.WithRoot(root),
		softchip.WithPort(3000),
		softchip.WithMetricsPath("/metrics"),
	)
	if err != nil {
		slog.Error("failed to create softchip", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   softchip Demo                                       ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:3000/index.html               ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Also serving:                                       ║")
	fmt.Println("  ║   • /api/stats  live or simulated host stats          ║")
	fmt.Println("  ║   • /metrics    Prometheus metrics                    ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sc.Start(ctx); err != nil {
		slog.Error("softchip error", "error", err)
		os.RemoveAll(root)
		os.Exit(1)
	}
}
