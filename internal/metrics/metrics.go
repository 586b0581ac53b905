package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsReceived counts job requests accepted by the API.
	JobsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lava_bridge_jobs_received_total",
			Help: "The total number of job requests accepted.",
		},
		[]string{"plan"},
	)

	// JobsSubmitted counts jobs successfully handed to the scheduler.
	JobsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lava_bridge_jobs_submitted_total",
			Help: "The total number of jobs submitted to the scheduler.",
		},
		[]string{"plan"},
	)

	// JobsFailed counts jobs that failed permanently.
	JobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lava_bridge_jobs_failed_total",
			Help: "The total number of jobs that failed permanently.",
		},
		[]string{"plan", "reason"},
	)

	// JobRetries counts jobs requeued after a transient failure.
	JobRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lava_bridge_job_retries_total",
			Help: "The total number of times a job has been requeued.",
		},
		[]string{"plan"},
	)

	// GenerateDuration measures template rendering plus submission time.
	GenerateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lava_bridge_generate_duration_seconds",
			Help:    "A histogram of the job generate-and-submit duration.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"plan"},
	)

	// HTTPRequests counts API requests by route and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lava_bridge_http_requests_total",
			Help: "The total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)
)
