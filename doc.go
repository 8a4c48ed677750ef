// Package softchip serves a pre-built web front-end over HTTP together with a
// small live host-metrics resource.
//
// softchip is meant for local use next to a browser: it exposes one directory
// of static assets and one JSON endpoint, and nothing else. There is no
// authentication, no TLS, no uploads and no range requests.
//
// # Quick Start
//
//	sc, _ := softchip.New(softchip.WithRoot("./build"))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	sc.Start(ctx) // blocks until context is cancelled
//
// # HTTP Surface
//
//   - GET /api/stats: JSON snapshot with cpu_percent, ram_percent,
//     ram_used_gb, ram_total_gb and softchip_mode (BURST, IDLE or SIMULATION)
//   - GET any other path: the file at that path under the root, 403 for
//     directories and paths escaping the root, 404 when missing
//   - Any other method: 405
//
// Every response, errors included, carries Access-Control-Allow-Origin: *
// and headers that disable caching.
//
// # Host Metrics
//
// At startup softchip checks once whether host CPU and memory counters can
// be read. If they can, /api/stats reports them and tags the snapshot BURST
// above 50% CPU or IDLE otherwise. If not (or with [WithSimulation]), it
// reports plausible synthetic numbers tagged SIMULATION.
//
// # Architecture
//
// softchip consists of several internal packages (under internal/):
//
//   - internal/static: path resolution under the root and the MIME table
//   - internal/sampler: live and simulated host snapshots
//   - internal/server: routing, response writing and the listener
//   - internal/telemetry: optional Prometheus metrics
//
// The internal packages are not part of the public API and may change
// without notice.
package softchip
