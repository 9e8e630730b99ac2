package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	requestsTotal      *prometheus.CounterVec
	latencySeconds     *prometheus.HistogramVec
	submissionsTotal   *prometheus.CounterVec
	gradingsTotal      prometheus.Counter
	autoGradeScoreDist prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classroom_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_submissions_total",
			Help: "Total number of assignment submissions, partitioned by kind.",
		}, []string{"kind"})

		gradingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classroom_gradings_total",
			Help: "Total number of manual grading actions.",
		})

		autoGradeScoreDist = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "classroom_auto_grade_score",
			Help:    "Distribution of normalized auto-graded scores (0-10).",
			Buckets: []float64{0, 2, 4, 6, 8, 10},
		})

		prometheus.MustRegister(requestsTotal, latencySeconds, submissionsTotal, gradingsTotal, autoGradeScoreDist)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Submissions exposes the counter for submit calls; kind is "draft" or "final".
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// Gradings exposes the counter for manual grading actions.
func Gradings() prometheus.Counter {
	RegisterMetrics()
	return gradingsTotal
}

// AutoGradeScores exposes the normalized auto-grade score histogram.
func AutoGradeScores() prometheus.Histogram {
	RegisterMetrics()
	return autoGradeScoreDist
}
