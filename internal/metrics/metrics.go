// Package metrics registers the service's Prometheus collectors on the
// default registry. They are exposed through GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ova_manager"

var (
	// HTTPRequests counts API requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "API requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration measures request latency per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "API request latency by method and route.",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 10},
	}, []string{"method", "route"})

	// RestorePointDeletes counts deletions by what asked for them and how
	// they went.
	RestorePointDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restore_point_deletes_total",
		Help:      "Restore point deletions by trigger (api, retention) and outcome.",
	}, []string{"trigger", "outcome"})

	// BytesReclaimed totals artifact bytes freed by deletions.
	BytesReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bytes_reclaimed_total",
		Help:      "Artifact bytes freed by restore point deletions.",
	})

	// RetentionSweeps counts sweep runs regardless of outcome.
	RetentionSweeps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retention_sweeps_total",
		Help:      "Retention sweep runs.",
	})
)
