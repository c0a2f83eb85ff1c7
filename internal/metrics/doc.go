// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

/*
Package metrics provides Prometheus metrics for tastefeed.

Collectors are registered on the default registry with promauto and exposed
at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Feed generation:
  - tastefeed_feed_requests_total{outcome}: grounded, ungrounded or error
  - tastefeed_feed_duration_seconds: end-to-end generation latency
  - tastefeed_candidates_scored: candidates scored per request
  - tastefeed_slot_candidates{slot}: candidates allocated per slot

Candidate cache:
  - tastefeed_candidate_cache_hits_total{backend}
  - tastefeed_candidate_cache_misses_total{backend}
  - tastefeed_candidate_cache_invalidations_total{source}

Vector blending:
  - tastefeed_vector_path_total{path}: enabled, disabled or error
  - tastefeed_vector_matches: neighbours returned per lookup
  - circuit_breaker_state{name}, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total

API and events:
  - api_requests_total, api_request_duration_seconds, api_active_requests,
    api_rate_limit_hits_total
  - nats_messages_consumed_total, nats_messages_failed_total
*/
package metrics
