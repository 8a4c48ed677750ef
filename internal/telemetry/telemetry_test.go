package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsaas/softchip/internal/sampler"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("static", 200)
	m.ObserveRequest("static", 200)
	m.ObserveRequest("rejected", 405)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("static", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("rejected", "405")))
}

func TestObserveSnapshot(t *testing.T) {
	m := New()

	m.ObserveSnapshot(sampler.Snapshot{CPUPercent: 12.5, RAMPercent: 40, Mode: sampler.ModeIdle})
	m.ObserveSnapshot(sampler.Snapshot{CPUPercent: 80, RAMPercent: 41, Mode: sampler.ModeBurst})

	assert.Equal(t, 80.0, testutil.ToFloat64(m.cpuPercent))
	assert.Equal(t, 41.0, testutil.ToFloat64(m.ramPercent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshots.WithLabelValues("IDLE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshots.WithLabelValues("BURST")))
}

func TestPeerDisconnects(t *testing.T) {
	m := New()
	m.IncPeerDisconnects()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.peerDisconnects))
}

func TestIndependentRegistries(t *testing.T) {
	// two instances must not panic on duplicate registration
	a, b := New(), New()
	a.IncPeerDisconnects()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.peerDisconnects))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("metrics", 200)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `softchip_http_requests_total{code="200",route="metrics"} 1`)
}
