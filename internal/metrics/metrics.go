package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AssessmentsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_scored_total",
			Help: "Total number of OCEAN assessments scored",
		},
		[]string{"strategy"},
	)

	FieldRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "field_recommendations_total",
			Help: "Number of times each career field was recommended",
		},
		[]string{"field"},
	)

	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "LLM calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	LLMLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "llm_call_duration_seconds",
			Help: "Duration of LLM calls in seconds",
		},
		[]string{"provider"},
	)
)
