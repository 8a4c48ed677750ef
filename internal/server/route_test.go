package server

import (
	"net/http"
	"testing"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   Decision
	}{
		{http.MethodGet, "/api/stats", DecisionMetrics},
		{http.MethodGet, "/api/stats/", DecisionStaticAsset},
		{http.MethodGet, "/api/stats/live", DecisionStaticAsset},
		{http.MethodGet, "/", DecisionStaticAsset},
		{http.MethodGet, "/style.css", DecisionStaticAsset},
		{http.MethodGet, "/../../etc/passwd", DecisionStaticAsset},
		{http.MethodPost, "/api/stats", DecisionRejected},
		{http.MethodPost, "/style.css", DecisionRejected},
		{http.MethodHead, "/style.css", DecisionRejected},
		{http.MethodPut, "/", DecisionRejected},
		{"get", "/api/stats", DecisionRejected},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if got := Route(tt.method, tt.path); got != tt.want {
				t.Errorf("Route(%q, %q) = %v, want %v", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestDecision_String(t *testing.T) {
	tests := map[Decision]string{
		DecisionRejected:    "rejected",
		DecisionMetrics:     "stats",
		DecisionStaticAsset: "static",
		Decision(99):        "rejected",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("Decision(%d).String() = %q, want %q", int(d), got, want)
		}
	}
}
