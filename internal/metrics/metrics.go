package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewRuns counts review runs, labeled by outcome.
	ReviewRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_runs_total",
		Help: "The total number of review runs",
	}, []string{"status"}) // status: success, critical, parse_error, error, skipped

	// ParseFailures counts model responses that could not be normalized.
	ParseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_parse_failures_total",
		Help: "Total number of model responses that failed normalization",
	}, []string{"reason"}) // reason: no_json, schema, empty

	// DroppedIssues counts issue records rejected during normalization.
	DroppedIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_dropped_issues_total",
		Help: "Total number of issue records dropped during normalization",
	}, []string{"reason"}) // reason: not_object, severity, category, missing_field

	// PublishFallbacks counts review submissions demoted to a plain comment.
	PublishFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "review_publish_fallbacks_total",
		Help: "Total number of review submissions that fell back to a plain comment",
	})

	// CommentPostFailures counts failed posts to the hosting platform.
	CommentPostFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_comment_failures_total",
		Help: "Total number of failed comment posts to GitHub",
	}, []string{"reason"}) // reason: review_error, fallback_error

	// ProcessingDuration measures end-to-end run time.
	ProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "review_processing_duration_seconds",
		Help:    "Time taken to run a review end-to-end",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"}) // result: success, error
)
