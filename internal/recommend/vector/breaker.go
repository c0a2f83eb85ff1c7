// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package vector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tastefeed/internal/metrics"
)

// BreakerConfig configures the circuit breaker around an Index.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// BreakerIndex fails fast while the wrapped index keeps failing. An open
// breaker surfaces as an error, which disables the vector path for that
// request.
type BreakerIndex struct {
	index Index
	cb    *gobreaker.CircuitBreaker[[]Match]
	name  string
}

// NewBreakerIndex wraps index with a circuit breaker that opens after
// cfg.FailureThreshold consecutive failures.
func NewBreakerIndex(index Index, cfg BreakerConfig, logger zerolog.Logger) *BreakerIndex {
	if cfg.Name == "" {
		cfg.Name = "vector-index"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	log := logger.With().Str("component", "vector_breaker").Logger()

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]Match](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// Cancelled requests say nothing about index health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Vector index circuit breaker state transition")
			metrics.RecordBreakerTransition(name, from, to)
		},
	})

	return &BreakerIndex{index: index, cb: cb, name: cfg.Name}
}

// FindSimilar implements Index.
func (b *BreakerIndex) FindSimilar(ctx context.Context, vector []float32, k int) ([]Match, error) {
	matches, err := b.cb.Execute(func() ([]Match, error) {
		return b.index.FindSimilar(ctx, vector, k)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerResult(b.name, "rejected")
			return nil, fmt.Errorf("vector index %s unavailable: %w", b.name, err)
		}
		metrics.RecordBreakerResult(b.name, "failure")
		return nil, err
	}

	metrics.RecordBreakerResult(b.name, "success")
	return matches, nil
}

// State returns the breaker state for health reporting.
func (b *BreakerIndex) State() gobreaker.State {
	return b.cb.State()
}
