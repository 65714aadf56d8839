// Package metrics has the Prometheus metrics of the client core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "conduit"

var (
	// EventsProcessed counts inputs run through the application
	// loop by kind ("url", "page", "completion", "timer").
	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "events_processed_total",
			Help:      "Total number of events processed by the application loop",
		},
		[]string{"kind"},
	)

	// StaleDrops counts page messages that arrived when a
	// different page was active.
	StaleDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "stale_drops_total",
			Help:      "Page messages dropped because their page was no longer active",
		},
		[]string{"page"},
	)

	RouteChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "route_changes_total",
			Help:      "Route changes by destination",
		},
		[]string{"route"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "status",
			Name:      "transitions_total",
			Help:      "Resource status transitions by resulting phase",
		},
		[]string{"phase"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend request duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "op", "status"},
	)

	Connections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sio",
			Name:      "connections",
			Help:      "Open coupling connections",
		},
		[]string{"coupling"},
	)
)

// ObserveRequest records how long a backend request took.
func ObserveRequest(method, op, status string, began time.Time) {
	APIRequestDuration.WithLabelValues(method, op, status).Observe(time.Since(began).Seconds())
}
