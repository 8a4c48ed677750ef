package server

import "net/http"

// StatsPath is the only non-file resource served.
const StatsPath = "/api/stats"

// Decision classifies an inbound request.
type Decision int

const (
	// DecisionRejected requests get 405.
	DecisionRejected Decision = iota
	// DecisionMetrics requests get a stats snapshot.
	DecisionMetrics
	// DecisionStaticAsset requests are resolved under the served root.
	DecisionStaticAsset
)

// String returns the label used for the decision in telemetry.
func (d Decision) String() string {
	switch d {
	case DecisionMetrics:
		return "stats"
	case DecisionStaticAsset:
		return "static"
	default:
		return "rejected"
	}
}

// Route classifies a request by method and path. It holds no state.
func Route(method, path string) Decision {
	if method != http.MethodGet {
		return DecisionRejected
	}
	if path == StatsPath {
		return DecisionMetrics
	}
	return DecisionStaticAsset
}
