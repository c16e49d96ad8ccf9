// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	QualificationsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualifications_computed_total",
			Help: "Total number of client qualifications computed",
		},
		[]string{"source"},
	)

	ProgramMatchScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "program_match_score",
			Help:    "Distribution of program match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"program_type"},
	)

	ClientProfileCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_profile_cache_total",
			Help: "Client profile cache lookups by result",
		},
		[]string{"result"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP API requests by route and status",
		},
		[]string{"route", "status"},
	)
)
