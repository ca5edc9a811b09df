// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "partio"

// Metrics groups every collector the server updates.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests         *prometheus.CounterVec
	RPCDuration         *prometheus.HistogramVec
	LedgerEntities      *prometheus.GaugeVec
	LedgerRevision      prometheus.Gauge
	SettlementTransfers prometheus.Histogram
	StorageConflicts    prometheus.Counter
	EventPublishErrors  prometheus.Counter
}

// New creates the collectors on a fresh registry. withRuntime also registers
// the Go runtime and process collectors, which the server wants and tests
// do not.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		LedgerEntities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_entities",
			Help:      "Current number of members, expenses and payments.",
		}, []string{"kind"}),
		LedgerRevision: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_revision",
			Help:      "Stored revision of the served ledger.",
		}),
		SettlementTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Number of transfers in each computed settlement plan.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		StorageConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_conflicts_total",
			Help:      "Saves rejected because another writer advanced the revision.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Change events that could not be published.",
		}),
	}

	reg.MustRegister(
		m.RPCRequests,
		m.RPCDuration,
		m.LedgerEntities,
		m.LedgerRevision,
		m.SettlementTransfers,
		m.StorageConflicts,
		m.EventPublishErrors,
	)
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// SetLedgerSize updates the entity gauges.
func (m *Metrics) SetLedgerSize(members, expenses, payments int) {
	m.LedgerEntities.WithLabelValues("members").Set(float64(members))
	m.LedgerEntities.WithLabelValues("expenses").Set(float64(expenses))
	m.LedgerEntities.WithLabelValues("payments").Set(float64(payments))
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
