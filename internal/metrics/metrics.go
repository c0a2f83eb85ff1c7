// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package metrics

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed outcomes.
const (
	OutcomeGrounded   = "grounded"
	OutcomeUngrounded = "ungrounded"
	OutcomeError      = "error"
)

// Vector paths.
const (
	VectorPathEnabled  = "enabled"
	VectorPathDisabled = "disabled"
	VectorPathError    = "error"
)

var (
	// Feed Generation Metrics
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastefeed_feed_requests_total",
			Help: "Total number of feed generations by outcome",
		},
		[]string{"outcome"}, // "grounded", "ungrounded", "error"
	)

	FeedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tastefeed_feed_duration_seconds",
			Help:    "Duration of feed generation in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	CandidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tastefeed_candidates_scored",
			Help:    "Number of candidates scored per feed generation",
			Buckets: []float64{0, 5, 15, 25, 50, 100, 250, 500, 1000},
		},
	)

	SlotCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tastefeed_slot_candidates",
			Help:    "Number of candidates allocated to each feed slot",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"slot"},
	)

	// Candidate Cache Metrics
	CandidateCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastefeed_candidate_cache_hits_total",
			Help: "Total number of candidate snapshot cache hits",
		},
		[]string{"backend"},
	)

	CandidateCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastefeed_candidate_cache_misses_total",
			Help: "Total number of candidate snapshot cache misses",
		},
		[]string{"backend"},
	)

	CandidateCacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastefeed_candidate_cache_invalidations_total",
			Help: "Total number of candidate cache invalidations by source",
		},
		[]string{"source"}, // "api", "nats", "manual"
	)

	// Vector Path Metrics
	VectorPath = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastefeed_vector_path_total",
			Help: "Scoring path taken per feed generation",
		},
		[]string{"path"}, // "enabled", "disabled", "error"
	)

	VectorMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tastefeed_vector_matches",
			Help:    "Nearest-neighbour matches returned per vector lookup",
			Buckets: []float64{0, 10, 25, 50, 75, 100},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// NATS Event Metrics
	NATSMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_consumed_total",
			Help: "Total number of enrichment events consumed from NATS",
		},
	)

	NATSMessagesFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_failed_total",
			Help: "Total number of events that could not be parsed or applied",
		},
	)

	EventWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastefeed_event_writes_total",
			Help: "Total number of records persisted from consumed events",
		},
		[]string{"kind"},
	)
)

// RecordFeed records a feed generation outcome and its duration.
func RecordFeed(outcome string, scored int, duration time.Duration) {
	FeedRequests.WithLabelValues(outcome).Inc()
	FeedDuration.Observe(duration.Seconds())
	if outcome != OutcomeError {
		CandidatesScored.Observe(float64(scored))
	}
}

// RecordSlot records how many candidates a slot received.
func RecordSlot(slot string, count int) {
	SlotCandidates.WithLabelValues(slot).Observe(float64(count))
}

// RecordCacheLookup records a candidate cache hit or miss.
func RecordCacheLookup(backend string, hit bool) {
	if hit {
		CandidateCacheHits.WithLabelValues(backend).Inc()
		return
	}
	CandidateCacheMisses.WithLabelValues(backend).Inc()
}

// RecordInvalidation records a candidate cache invalidation.
func RecordInvalidation(source string) {
	CandidateCacheInvalidations.WithLabelValues(source).Inc()
}

// RecordEventWrite records one record persisted from an event.
func RecordEventWrite(kind string) {
	EventWrites.WithLabelValues(kind).Inc()
}

// RecordVectorPath records the scoring path of one feed generation.
func RecordVectorPath(path string, matches int) {
	VectorPath.WithLabelValues(path).Inc()
	if path == VectorPathEnabled {
		VectorMatches.Observe(float64(matches))
	}
}

// RecordBreakerResult records the outcome of one call through a circuit breaker.
func RecordBreakerResult(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordBreakerTransition records a circuit breaker state change.
func RecordBreakerTransition(name string, from, to gobreaker.State) {
	CircuitBreakerState.WithLabelValues(name).Set(BreakerStateValue(to))
	CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
}

// BreakerStateValue converts a circuit breaker state to its gauge value.
func BreakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
