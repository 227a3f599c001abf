// internal/common/metrics/metrics.go
package metrics

import (
	"context"

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

	QuotesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotes_computed_total",
			Help: "Quotes served, cached or computed, by risk label and entry point (job, api, cli)",
		},
		[]string{"risk_label", "source"},
	)

	QuotePremium = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quote_premium_amount",
			Help:    "Distribution of computed annual premiums",
			Buckets: []float64{600, 800, 1000, 1200, 1300, 1500, 1800, 2000, 2500},
		},
	)

	QuoteCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_cache_lookups_total",
			Help: "Quote cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)
)

// Entry points for the quote "source" label.
const (
	SourceJob = "job"
	SourceAPI = "api"
	SourceCLI = "cli"
)

type sourceKey struct{}

// WithSource tags ctx with the entry point that requested a quote.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the entry point stored by WithSource, or SourceJob.
func SourceFrom(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok && s != "" {
		return s
	}
	return SourceJob
}

// ObserveQuote records a served quote.
func ObserveQuote(source, riskLabel string, premium int) {
	QuotesComputed.WithLabelValues(riskLabel, source).Inc()
	QuotePremium.Observe(float64(premium))
}
