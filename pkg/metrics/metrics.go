package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec

	// Work order metrics
	WorkOrderTransitionsTotal *prometheus.CounterVec
	WorkOrdersOpen            prometheus.Gauge

	// Approval metrics
	ApprovalDecisionsTotal *prometheus.CounterVec
	ApprovalConflictsTotal prometheus.Counter

	// Database metrics
	DBQueryErrors *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		WorkOrderTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "work_order_transitions_total",
				Help: "Work order state transitions by target state",
			},
			[]string{"to_state"},
		),
		WorkOrdersOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "work_orders_open",
				Help: "Number of non-terminal work orders",
			},
		),
		ApprovalDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "approval_decisions_total",
				Help: "Purchase order approval decisions by action and level",
			},
			[]string{"action", "level"},
		),
		ApprovalConflictsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "approval_conflicts_total",
				Help: "Concurrent approval writes rejected by the level guard",
			},
		),
		DBQueryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_query_errors_total",
				Help: "Database query errors by operation",
			},
			[]string{"operation"},
		),
	}
}
