// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Job results used as the result label of JobsProcessed.
const (
	ResultSuccess = "success"
	ResultRetry   = "retry"
	ResultDead    = "dead"
)

// Metrics groups every collector of the service. Collectors are registered on
// the registerer given to New, never on the global default.
type Metrics struct {
	HTTPRequests          *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	RateLimitExceeded     prometheus.Counter
	CheckpointsRegistered *prometheus.CounterVec
	UnitsAutoCreated      prometheus.Counter
	JobsProcessed         *prometheus.CounterVec
	JobRetries            *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		RateLimitExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rate_limit_exceeded_total",
			Help: "Total number of rejected HTTP requests due to rate limiting",
		}),
		CheckpointsRegistered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkpoints_registered_total",
				Help: "Total number of checkpoints accepted, by status",
			},
			[]string{"status"},
		),
		UnitsAutoCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "units_auto_created_total",
			Help: "Total number of units created on their first checkpoint",
		}),
		JobsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobs_processed_total",
				Help: "Total number of background job attempts, by job name and result",
			},
			[]string{"name", "result"},
		),
		JobRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "job_retries_total",
				Help: "Total number of background job retries scheduled",
			},
			[]string{"name"},
		),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.RateLimitExceeded,
		m.CheckpointsRegistered,
		m.UnitsAutoCreated,
		m.JobsProcessed,
		m.JobRetries,
	)

	return m
}

// NewNop returns collectors registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
