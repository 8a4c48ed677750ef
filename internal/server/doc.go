// Package server provides the HTTP server for softchip.
//
// This package is internal to softchip and handles all HTTP concerns:
//
//   - Stats API: JSON host snapshot at "/api/stats"
//   - Static assets: any other GET path, resolved under the served root
//   - Rejection: every non-GET request gets 405
//   - Telemetry: optional Prometheus exposition on a configured path
//
// Every response carries the same CORS and cache-disabling headers. Requests
// are not access-logged. A client that disconnects while a file is streaming
// is dropped silently.
//
// The server supports graceful shutdown via context cancellation.
//
// Users of the softchip library should not need to interact with this
// package directly. The server is started by [softchip.SoftChip.Start].
package server
