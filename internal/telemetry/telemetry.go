// Package telemetry holds the Prometheus collectors of a softchip server.
package telemetry

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vedsaas/softchip/internal/sampler"
)

const namespace = "softchip"

// Metrics owns a private registry so several servers (and tests) can live in
// one process without colliding on registration.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	peerDisconnects prometheus.Counter
	cpuPercent      prometheus.Gauge
	ramPercent      prometheus.Gauge
	snapshots       *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Requests handled, by route decision and status code.",
			},
			[]string{"route", "code"},
		),
		peerDisconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "peer_disconnects_total",
			Help:      "File transfers abandoned because the client went away.",
		}),
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "cpu_percent",
			Help:      "CPU percent reported by the last stats sample.",
		}),
		ramPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "ram_percent",
			Help:      "RAM percent reported by the last stats sample.",
		}),
		snapshots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stats",
				Name:      "snapshots_total",
				Help:      "Stats snapshots served, by mode.",
			},
			[]string{"mode"},
		),
	}

	m.registry.MustRegister(
		m.requests,
		m.peerDisconnects,
		m.cpuPercent,
		m.ramPercent,
		m.snapshots,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest counts one finished request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// IncPeerDisconnects counts one abandoned file transfer.
func (m *Metrics) IncPeerDisconnects() { m.peerDisconnects.Inc() }

// ObserveSnapshot records the values of a served stats snapshot.
func (m *Metrics) ObserveSnapshot(s sampler.Snapshot) {
	m.cpuPercent.Set(s.CPUPercent)
	m.ramPercent.Set(s.RAMPercent)
	m.snapshots.WithLabelValues(string(s.Mode)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
