// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package metrics

import (
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// histogramCount returns how many observations h has recorded.
func histogramCount(t *testing.T, h prometheus.Metric) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordFeed(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		scored  int
	}{
		{"grounded", OutcomeGrounded, 40},
		{"ungrounded", OutcomeUngrounded, 3},
		{"error", OutcomeError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(FeedRequests.WithLabelValues(tt.outcome))
			RecordFeed(tt.outcome, tt.scored, 15*time.Millisecond)
			after := testutil.ToFloat64(FeedRequests.WithLabelValues(tt.outcome))

			if after-before != 1 {
				t.Errorf("feed requests{%s} increased by %f, want 1", tt.outcome, after-before)
			}
		})
	}
}

func TestRecordFeed_ScoredOnlyWithoutError(t *testing.T) {
	before := histogramCount(t, CandidatesScored)

	RecordFeed(OutcomeError, 0, time.Millisecond)
	if got := histogramCount(t, CandidatesScored); got != before {
		t.Errorf("error outcome observed candidates scored: count %d, want %d", got, before)
	}

	RecordFeed(OutcomeGrounded, 25, time.Millisecond)
	if got := histogramCount(t, CandidatesScored); got != before+1 {
		t.Errorf("candidates scored count = %d, want %d", got, before+1)
	}
}

func TestRecordSlot(t *testing.T) {
	slot, ok := SlotCandidates.WithLabelValues("mood_boards").(prometheus.Histogram)
	if !ok {
		t.Fatal("slot observer is not a histogram")
	}
	before := histogramCount(t, slot)

	RecordSlot("mood_boards", 3)
	RecordSlot("mood_boards", 0)

	if got := histogramCount(t, slot); got != before+2 {
		t.Errorf("slot observations = %d, want %d", got, before+2)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CandidateCacheHits.WithLabelValues("memory"))
	misses := testutil.ToFloat64(CandidateCacheMisses.WithLabelValues("memory"))

	RecordCacheLookup("memory", true)
	RecordCacheLookup("memory", false)
	RecordCacheLookup("memory", false)

	if got := testutil.ToFloat64(CandidateCacheHits.WithLabelValues("memory")) - hits; got != 1 {
		t.Errorf("hits increased by %f, want 1", got)
	}
	if got := testutil.ToFloat64(CandidateCacheMisses.WithLabelValues("memory")) - misses; got != 2 {
		t.Errorf("misses increased by %f, want 2", got)
	}
}

func TestRecordInvalidation(t *testing.T) {
	before := testutil.ToFloat64(CandidateCacheInvalidations.WithLabelValues("nats"))
	RecordInvalidation("nats")
	if got := testutil.ToFloat64(CandidateCacheInvalidations.WithLabelValues("nats")) - before; got != 1 {
		t.Errorf("invalidations increased by %f, want 1", got)
	}
}

func TestRecordEventWrite(t *testing.T) {
	before := testutil.ToFloat64(EventWrites.WithLabelValues("candidate"))
	RecordEventWrite("candidate")
	if got := testutil.ToFloat64(EventWrites.WithLabelValues("candidate")) - before; got != 1 {
		t.Errorf("event writes increased by %f, want 1", got)
	}
}

func TestRecordVectorPath(t *testing.T) {
	for _, path := range []string{VectorPathEnabled, VectorPathDisabled, VectorPathError} {
		before := testutil.ToFloat64(VectorPath.WithLabelValues(path))
		RecordVectorPath(path, 12)
		if got := testutil.ToFloat64(VectorPath.WithLabelValues(path)) - before; got != 1 {
			t.Errorf("vector path{%s} increased by %f, want 1", path, got)
		}
	}
}

func TestBreakerStateValue(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		want  float64
	}{
		{gobreaker.StateClosed, 0},
		{gobreaker.StateHalfOpen, 1},
		{gobreaker.StateOpen, 2},
		{gobreaker.State(99), -1},
	}

	for _, tt := range tests {
		if got := BreakerStateValue(tt.state); got != tt.want {
			t.Errorf("BreakerStateValue(%v) = %f, want %f", tt.state, got, tt.want)
		}
	}
}

func TestRecordBreakerTransition(t *testing.T) {
	RecordBreakerTransition("test-breaker", gobreaker.StateClosed, gobreaker.StateOpen)

	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-breaker")); got != 2 {
		t.Errorf("breaker state gauge = %f, want 2", got)
	}
	transitions := CircuitBreakerTransitions.WithLabelValues("test-breaker", "closed", "open")
	if got := testutil.ToFloat64(transitions); got != 1 {
		t.Errorf("transitions = %f, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %f, want %f", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %f, want %f", got, before)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/health", "200"))
	RecordAPIRequest("GET", "/health", "200", 2*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/health", "200")) - before; got != 1 {
		t.Errorf("api requests increased by %f, want 1", got)
	}
}
