package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts TMDB requests by endpoint and outcome
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gocinema",
		Name:      "tmdb_requests_total",
		Help:      "Requests issued to the TMDB API.",
	}, []string{"endpoint", "status"})

	// APIRequestDuration observes TMDB request latency
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gocinema",
		Name:      "tmdb_request_duration_seconds",
		Help:      "Latency of TMDB API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	// StaleResponses counts responses dropped because the slot was reset
	StaleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gocinema",
		Name:      "stale_responses_total",
		Help:      "Responses discarded because a newer request superseded them.",
	}, []string{"slot"})

	// StorageWriteFailures counts failed writes of a library collection
	StorageWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gocinema",
		Name:      "storage_write_failures_total",
		Help:      "Failed writes of persisted library collections.",
	}, []string{"key"})
)
