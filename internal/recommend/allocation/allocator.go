// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package allocation

import (
	"github.com/tomtom215/tastefeed/internal/recommend"
)

// MinCandidates is the default number of scored candidates required before a
// feed is allocated.
const MinCandidates = 15

// HasEnoughCandidates reports whether scoredCount meets the default minimum.
func HasEnoughCandidates(scoredCount int) bool {
	return scoredCount >= MinCandidates
}

// Input carries the per-user data the slot steps need besides the ranking.
type Input struct {
	Contradictions []recommend.Contradiction
	MicroSignals   recommend.MicroSignals
	LifeContext    recommend.LifeContext
}

// Allocator runs the slot steps with a fixed configuration.
// It is stateless and safe for concurrent use.
type Allocator struct {
	cfg recommend.AllocationConfig
}

// NewAllocator creates an allocator.
func NewAllocator(cfg recommend.AllocationConfig) *Allocator {
	if cfg.MinCandidates <= 0 {
		cfg.MinCandidates = MinCandidates
	}
	return &Allocator{cfg: cfg}
}

// HasEnoughCandidates reports whether scoredCount meets the configured minimum.
func (a *Allocator) HasEnoughCandidates(scoredCount int) bool {
	return scoredCount >= a.cfg.MinCandidates
}

// Allocate partitions ranked candidates into the feed slots. ranked must be
// sorted best first; callers gate on HasEnoughCandidates beforehand.
// The input slice is not modified.
func (a *Allocator) Allocate(ranked []recommend.ScoredCandidate, in Input) *recommend.AllocatedFeed {
	p := NewPool(ranked)
	feed := &recommend.AllocatedFeed{}

	feed.DeepMatch = DeepMatch(p)
	feed.BecauseYouCards = BecauseYou(p, a.cfg.BecauseYouCards)
	feed.TasteTension = TasteTension(p, in.Contradictions)
	feed.SignalThread = SignalThread(p, a.cfg, in.MicroSignals)
	feed.StretchPick = Stretch(p, a.cfg)
	feed.WeeklyCollection = Weekly(p, a.cfg)
	feed.MoodBoards = MoodBoards(p, a.cfg, feed.WeeklyCollection.Domain)
	feed.ContextRecs = ContextRecs(p, a.cfg.ContextRecs, in.LifeContext.Label())

	return feed
}
