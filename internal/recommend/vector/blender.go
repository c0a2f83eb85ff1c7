// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package vector

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tastefeed/internal/recommend"
	"github.com/tomtom215/tastefeed/internal/recommend/matching"
)

// BlendResult is the outcome of blending vector scores into a scored list.
type BlendResult struct {
	// Candidates is ranked by OverallScore descending.
	Candidates []recommend.ScoredCandidate

	// VectorEnabled is true when a preference vector was found and queried.
	VectorEnabled bool

	// Matches is the number of distinct candidates returned by the index.
	Matches int
}

// Blender applies vector similarity to scored candidates.
type Blender struct {
	index  Index
	prefs  PreferenceStore
	topK   int
	weight float64
	logger zerolog.Logger
}

// NewBlender creates a Blender. A nil index or preference store disables the
// vector path.
func NewBlender(index Index, prefs PreferenceStore, cfg recommend.VectorConfig, logger zerolog.Logger) *Blender {
	defaults := recommend.DefaultConfig().Vector
	if cfg.TopK <= 0 {
		cfg.TopK = defaults.TopK
	}
	if cfg.Weight < 0 || cfg.Weight > 1 {
		cfg.Weight = defaults.Weight
	}
	return &Blender{
		index:  index,
		prefs:  prefs,
		topK:   cfg.TopK,
		weight: cfg.Weight,
		logger: logger.With().Str("component", "vector_blender").Logger(),
	}
}

// Blend looks up the user's preference vector and blends nearest-neighbour
// scores into scored. The input slice is not modified.
//
// A missing vector is not an error. A failed preference or index lookup is
// returned as an error together with the signal-only ranking, so the caller
// can choose to degrade.
func (b *Blender) Blend(ctx context.Context, userID string, scored []recommend.ScoredCandidate) (BlendResult, error) {
	signalOnly := BlendResult{Candidates: scored}
	if b == nil || b.index == nil || b.prefs == nil {
		return signalOnly, nil
	}

	vec, err := b.prefs.GetUserVector(ctx, userID)
	if errors.Is(err, ErrNoPreferenceVector) {
		b.logger.Debug().Str("user_id", userID).Msg("No preference vector, using signal scores")
		return signalOnly, nil
	}
	if err != nil {
		return signalOnly, fmt.Errorf("get preference vector: %w", err)
	}
	if len(vec) == 0 {
		return signalOnly, nil
	}

	matches, err := b.index.FindSimilar(ctx, vec, b.topK)
	if err != nil {
		return signalOnly, fmt.Errorf("find similar candidates: %w", err)
	}

	scores := make(map[string]int, len(matches))
	for _, m := range matches {
		if _, seen := scores[m.ID]; !seen {
			scores[m.ID] = m.Score
		}
	}

	b.logger.Debug().
		Str("user_id", userID).
		Int("matches", len(scores)).
		Msg("Blended vector scores")

	return BlendResult{
		Candidates:    ApplyVectorScores(scored, scores, b.weight),
		VectorEnabled: true,
		Matches:       len(scores),
	}, nil
}

// ApplyVectorScores returns a re-ranked copy of scored. Candidates present in
// vectorScores get VectorScore and BlendedScore set and their OverallScore
// replaced by the blend; the rest get BlendedScore equal to SignalScore.
func ApplyVectorScores(scored []recommend.ScoredCandidate, vectorScores map[string]int, weight float64) []recommend.ScoredCandidate {
	out := make([]recommend.ScoredCandidate, len(scored))
	copy(out, scored)

	for i := range out {
		c := &out[i]
		signal := c.SignalScore

		v, ok := vectorScores[c.ID]
		if !ok {
			blended := signal
			c.BlendedScore = &blended
			continue
		}

		vs := v
		blended := int(math.Round(weight*float64(v) + (1-weight)*float64(signal)))
		c.VectorScore = &vs
		c.BlendedScore = &blended
		c.OverallScore = blended
	}

	matching.SortByScore(out)
	return out
}
