package common

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaker_recommendations_served_total",
			Help: "Recommendation responses served, by kind and cache hit",
		},
		[]string{"kind", "cached"},
	)

	ScoringFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaker_scoring_failures_total",
			Help: "Candidates that failed to score and were given a neutral score",
		},
		[]string{"kind"},
	)

	UpstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaker_upstream_failures_total",
			Help: "GitHub calls that failed after retries",
		},
		[]string{"operation"},
	)

	CachePersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaker_cache_persist_failures_total",
			Help: "Recommendation cache writes that failed",
		},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matchmaker_pipeline_duration_seconds",
			Help:    "Duration of a recommendation pipeline run",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)
