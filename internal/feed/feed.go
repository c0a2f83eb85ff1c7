// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

// Package feed runs the feed pipeline for one user: fetch candidates, score
// them against the user's profile, blend vector similarity, check the
// candidate floor and allocate the eight slots.
//
// A result with Grounded=false carries no feed; the caller must switch to a
// non-grounded generation path. Vector failures never fail a request, they
// only turn VectorEnabled off. Candidate and profile failures are returned.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tastefeed/internal/logging"
	"github.com/tomtom215/tastefeed/internal/metrics"
	"github.com/tomtom215/tastefeed/internal/recommend"
	"github.com/tomtom215/tastefeed/internal/recommend/allocation"
	"github.com/tomtom215/tastefeed/internal/recommend/matching"
	"github.com/tomtom215/tastefeed/internal/recommend/vector"
)

// CandidateProvider supplies the matchable candidate pool.
type CandidateProvider interface {
	FetchCandidates(ctx context.Context) ([]recommend.CandidateProperty, error)
}

// ProfileProvider supplies a user's taste profile, micro-signals,
// contradictions and life context.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*recommend.UserProfile, error)
}

// Blender blends vector similarity into signal scores.
type Blender interface {
	Blend(ctx context.Context, userID string, scored []recommend.ScoredCandidate) (vector.BlendResult, error)
}

// Request asks for one user's feed.
type Request struct {
	// RequestID correlates logs; taken from the context or generated when empty.
	RequestID string

	UserID string

	// LifeContext overrides the stored life context when set.
	LifeContext *recommend.LifeContext
}

// Result is the outcome of one feed generation.
type Result struct {
	RequestID      string    `json:"request_id"`
	UserID         string    `json:"user_id"`
	CandidateCount int       `json:"candidate_count"`
	ScoredCount    int       `json:"scored_count"`
	VectorEnabled  bool      `json:"vector_enabled"`
	Grounded       bool      `json:"grounded"`
	LatencyMS      int64     `json:"latency_ms"`
	GeneratedAt    time.Time `json:"generated_at"`

	// Feed is nil when Grounded is false.
	Feed *recommend.AllocatedFeed `json:"feed,omitempty"`
}

// Options configures a Service.
type Options struct {
	// Timeout bounds a whole generation; zero means no bound.
	Timeout time.Duration
}

// Service generates feeds.
type Service struct {
	candidates CandidateProvider
	profiles   ProfileProvider
	blender    Blender
	matcher    *matching.Matcher
	allocator  *allocation.Allocator
	timeout    time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService creates a Service. A nil blender disables vector blending.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(
	cfg *recommend.Config,
	candidates CandidateProvider,
	profiles ProfileProvider,
	blender Blender,
	opts Options,
	logger zerolog.Logger,
) (*Service, error) {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if candidates == nil || profiles == nil {
		return nil, errors.New("candidate and profile providers are required")
	}

	return &Service{
		candidates: candidates,
		profiles:   profiles,
		blender:    blender,
		matcher:    matching.NewMatcher(cfg.Matching),
		allocator:  allocation.NewAllocator(cfg.Allocation),
		timeout:    opts.Timeout,
		logger:     logger.With().Str("component", "feed").Logger(),
		now:        time.Now,
	}, nil
}

// Generate builds the feed for req.UserID.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	start := s.now()
	req = s.prepareRequest(ctx, req)
	logger := s.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.generate(ctx, req, logger)
	if err != nil {
		metrics.RecordFeed(metrics.OutcomeError, 0, s.now().Sub(start))
		logger.Error().Err(err).Msg("Feed generation failed")
		return nil, err
	}

	res.GeneratedAt = s.now()
	latency := res.GeneratedAt.Sub(start)
	res.LatencyMS = latency.Milliseconds()

	outcome := metrics.OutcomeGrounded
	if !res.Grounded {
		outcome = metrics.OutcomeUngrounded
	}
	metrics.RecordFeed(outcome, res.ScoredCount, latency)

	logger.Info().
		Int("candidates", res.CandidateCount).
		Int("scored", res.ScoredCount).
		Bool("vector_enabled", res.VectorEnabled).
		Bool("grounded", res.Grounded).
		Int64("latency_ms", res.LatencyMS).
		Msg("Feed generated")

	return res, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) prepareRequest(ctx context.Context, req Request) Request {
	if req.RequestID == "" {
		req.RequestID = logging.RequestIDFromContext(ctx)
	}
	if req.RequestID == "" {
		req.RequestID = logging.GenerateRequestID()
	}
	return req
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) generate(ctx context.Context, req Request, logger zerolog.Logger) (*Result, error) {
	profile, err := s.profiles.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	candidates, err := s.candidates.FetchCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("get candidates: %w", err)
	}

	scored := s.matcher.ScoreAll(candidates, profile.Taste, profile.MicroSignals, profile.Contradictions)
	ranked, vectorEnabled := s.blend(ctx, req.UserID, scored, logger)

	res := &Result{
		RequestID:      req.RequestID,
		UserID:         req.UserID,
		CandidateCount: len(candidates),
		ScoredCount:    len(ranked),
		VectorEnabled:  vectorEnabled,
	}

	if !s.allocator.HasEnoughCandidates(len(ranked)) {
		logger.Info().
			Int("scored", len(ranked)).
			Msg("Not enough candidates for a grounded feed")
		return res, nil
	}

	lifeContext := profile.LifeContext
	if req.LifeContext != nil {
		lifeContext = *req.LifeContext
	}

	res.Feed = s.allocator.Allocate(ranked, allocation.Input{
		Contradictions: profile.Contradictions,
		MicroSignals:   profile.MicroSignals,
		LifeContext:    lifeContext,
	})
	res.Grounded = true
	recordSlots(res.Feed)

	return res, nil
}

// blend applies vector scores, falling back to the signal ranking when the
// vector path fails.
func (s *Service) blend(ctx context.Context, userID string, scored []recommend.ScoredCandidate, logger zerolog.Logger) ([]recommend.ScoredCandidate, bool) {
	if s.blender == nil {
		metrics.RecordVectorPath(metrics.VectorPathDisabled, 0)
		return scored, false
	}

	res, err := s.blender.Blend(ctx, userID, scored)
	if err != nil {
		logger.Warn().Err(err).Msg("Vector lookup failed, using signal scores")
		metrics.RecordVectorPath(metrics.VectorPathError, 0)
		return scored, false
	}
	if !res.VectorEnabled {
		metrics.RecordVectorPath(metrics.VectorPathDisabled, 0)
		return scored, false
	}

	metrics.RecordVectorPath(metrics.VectorPathEnabled, res.Matches)
	return res.Candidates, true
}

func recordSlots(f *recommend.AllocatedFeed) {
	single := func(present bool) int {
		if present {
			return 1
		}
		return 0
	}

	moodBoards := 0
	for i := range f.MoodBoards {
		moodBoards += len(f.MoodBoards[i].Candidates)
	}

	metrics.RecordSlot("deep_match", single(f.DeepMatch != nil))
	metrics.RecordSlot("because_you", len(f.BecauseYouCards))
	metrics.RecordSlot("taste_tension", single(f.TasteTension != nil))
	metrics.RecordSlot("signal_thread", len(f.SignalThread.Candidates))
	metrics.RecordSlot("stretch_pick", single(f.StretchPick != nil))
	metrics.RecordSlot("weekly_collection", len(f.WeeklyCollection.Candidates))
	metrics.RecordSlot("mood_boards", moodBoards)
	metrics.RecordSlot("context_recs", len(f.ContextRecs.Candidates))
}
