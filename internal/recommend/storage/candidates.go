// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

// CandidateSource reads enriched candidates from the backing store.
// *database.DB implements it.
type CandidateSource interface {
	GetEnrichedCandidates(ctx context.Context) ([]recommend.CandidateProperty, error)
}

// CandidateStore supplies the matchable candidate pool.
type CandidateStore struct {
	source CandidateSource
	cache  Cache
	logger zerolog.Logger
}

// NewCandidateStore creates a store reading through cache.
func NewCandidateStore(source CandidateSource, cache Cache, logger zerolog.Logger) *CandidateStore {
	return &CandidateStore{
		source: source,
		cache:  cache,
		logger: logger.With().Str("component", "candidate_store").Str("backend", cache.Backend()).Logger(),
	}
}

// FetchCandidates returns every candidate with complete enrichment and at
// least one signal. Backing store failures are returned to the caller.
func (s *CandidateStore) FetchCandidates(ctx context.Context) ([]recommend.CandidateProperty, error) {
	return s.cache.GetOrFetch(ctx, s.load)
}

// Invalidate discards the cached snapshot; the next FetchCandidates always
// reads the backing store.
func (s *CandidateStore) Invalidate(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate candidate cache: %w", err)
	}
	s.logger.Info().Msg("Candidate cache invalidated")
	return nil
}

func (s *CandidateStore) load(ctx context.Context) ([]recommend.CandidateProperty, error) {
	all, err := s.source.GetEnrichedCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	candidates := make([]recommend.CandidateProperty, 0, len(all))
	for i := range all {
		if len(all[i].Signals) > 0 {
			candidates = append(candidates, all[i])
		}
	}

	s.logger.Debug().
		Int("fetched", len(all)).
		Int("matchable", len(candidates)).
		Msg("Candidate snapshot refreshed")
	return candidates, nil
}
