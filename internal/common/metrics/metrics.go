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

	OutfitPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfit_predictions_total",
			Help: "Outfit predictions by source (model or fallback)",
		},
		[]string{"source"},
	)

	CategoryResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "category_resolutions_total",
			Help: "Category inputs that were not encoded as given, by field and fallback tier",
		},
		[]string{"field", "tier"},
	)

	WeatherLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookups_total",
			Help: "Weather lookups by answer source (api, cache, fallback)",
		},
		[]string{"source"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "HTTP API requests by route and status code",
		},
		[]string{"route", "status"},
	)

	ModelInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outfit_model_info",
			Help: "Loaded outfit model; value is its held-out accuracy",
		},
		[]string{"model_id"},
	)
)
