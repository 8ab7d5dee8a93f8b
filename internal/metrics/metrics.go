// Package metrics exposes Prometheus counters for ledger and RPC activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nfp"

// Metrics holds the collectors of one node. Each node owns its registry
// so several nodes can run in one process.
type Metrics struct {
	registry *prometheus.Registry

	TokensCreated  prometheus.Counter
	EditionsMinted prometheus.Counter
	CallsRejected  *prometheus.CounterVec
	RPCRequests    *prometheus.CounterVec
	RPCDuration    *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TokensCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_created_total",
			Help:      "Tokens registered.",
		}),
		EditionsMinted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "editions_minted_total",
			Help:      "Editions minted.",
		}),
		CallsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_rejected_total",
			Help:      "Write calls that failed and were rolled back.",
		}, []string{"op", "reason"}),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "JSON-RPC requests by method and outcome.",
		}, []string{"method", "outcome"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "JSON-RPC request latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"method"}),
	}
	m.registry.MustRegister(
		m.TokensCreated,
		m.EditionsMinted,
		m.CallsRejected,
		m.RPCRequests,
		m.RPCDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRPC records one request.
func (m *Metrics) ObserveRPC(method, outcome string, took time.Duration) {
	m.RPCRequests.WithLabelValues(method, outcome).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(took.Seconds())
}

// Reject records a failed write call.
func (m *Metrics) Reject(op, reason string) {
	m.CallsRejected.WithLabelValues(op, reason).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gather exposes the registry for tests and diagnostics.
func (m *Metrics) Gather() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				out[f.GetName()] += c.GetValue()
			}
		}
	}
	return out, nil
}
