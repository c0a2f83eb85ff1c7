// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package matching

import (
	"sort"
	"strings"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

// Matcher scores candidates against a user's taste profile.
// It holds only configuration and is safe for concurrent use.
type Matcher struct {
	cfg recommend.MatchingConfig
}

// NewMatcher creates a matcher. Fields outside their valid range are replaced
// with defaults; zero is a valid anti-signal weight, reliability floor and
// both-sides bonus and is kept.
func NewMatcher(cfg recommend.MatchingConfig) *Matcher {
	defaults := recommend.DefaultConfig().Matching
	if cfg.Saturation <= 0 {
		cfg.Saturation = defaults.Saturation
	}
	if cfg.AntiSignalWeight < 0 {
		cfg.AntiSignalWeight = defaults.AntiSignalWeight
	}
	if cfg.CorroborationBoost < 1 {
		cfg.CorroborationBoost = defaults.CorroborationBoost
	}
	if cfg.ReliabilityFloor < 0 || cfg.ReliabilityFloor > 1 {
		cfg.ReliabilityFloor = defaults.ReliabilityFloor
	}
	if cfg.TopSignals <= 0 {
		cfg.TopSignals = defaults.TopSignals
	}
	if cfg.BothSidesBonus < 0 {
		cfg.BothSidesBonus = defaults.BothSidesBonus
	}
	return &Matcher{cfg: cfg}
}

// ScoreCandidate scores one candidate against the user's profile, micro-signals
// and contradictions.
//
//nolint:gocritic // hugeParam: candidate passed by value, it is never modified
func (m *Matcher) ScoreCandidate(
	candidate recommend.CandidateProperty,
	profile recommend.TasteProfile,
	microSignals recommend.MicroSignals,
	contradictions []recommend.Contradiction,
) recommend.ScoredCandidate {
	return m.score(candidate, profile, microSignalTokens(microSignals), contradictions)
}

// ScoreAll scores every candidate and sorts the result by OverallScore,
// highest first. Equal scores keep input order.
func (m *Matcher) ScoreAll(
	candidates []recommend.CandidateProperty,
	profile recommend.TasteProfile,
	microSignals recommend.MicroSignals,
	contradictions []recommend.Contradiction,
) []recommend.ScoredCandidate {
	vocabulary := microSignalTokens(microSignals)

	scored := make([]recommend.ScoredCandidate, len(candidates))
	for i := range candidates {
		scored[i] = m.score(candidates[i], profile, vocabulary, contradictions)
	}

	SortByScore(scored)
	return scored
}

// SortByScore stable-sorts candidates by OverallScore, highest first.
func SortByScore(scored []recommend.ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].OverallScore > scored[j].OverallScore
	})
}

//nolint:gocritic // hugeParam: candidate passed by value, it is never modified
func (m *Matcher) score(
	candidate recommend.CandidateProperty,
	profile recommend.TasteProfile,
	vocabulary map[string]struct{},
	contradictions []recommend.Contradiction,
) recommend.ScoredCandidate {
	rel := m.relevance(candidate, profile)

	return recommend.ScoredCandidate{
		CandidateProperty:      candidate,
		OverallScore:           rel.overall,
		SignalScore:            rel.overall,
		DomainBreakdown:        rel.breakdown,
		TopDimension:           rel.topDimension,
		TopMatchingSignals:     m.topMatchingSignals(candidate.Signals, vocabulary),
		ContradictionRelevance: m.contradictionRelevance(candidate.Signals, contradictions),
	}
}

// microSignalTokens flattens all micro-signal phrases into one token set.
func microSignalTokens(microSignals recommend.MicroSignals) map[string]struct{} {
	var phrases []string
	for _, d := range recommend.Domains {
		phrases = append(phrases, microSignals[d]...)
	}
	for d, list := range microSignals {
		if !d.Valid() {
			phrases = append(phrases, list...)
		}
	}
	return recommend.TokenSet(phrases...)
}

// topMatchingSignals ranks signals by token overlap with the user's vocabulary
// times confidence, keeping the configured number. Ties keep signal order.
func (m *Matcher) topMatchingSignals(signals []recommend.Signal, vocabulary map[string]struct{}) []recommend.Signal {
	type ranked struct {
		signal    recommend.Signal
		relevance float64
	}

	rankedSignals := make([]ranked, len(signals))
	for i, s := range signals {
		overlap := 0
		for _, tok := range recommend.Tokenize(s.Text) {
			if _, ok := vocabulary[tok]; ok {
				overlap++
			}
		}
		rankedSignals[i] = ranked{signal: s, relevance: float64(overlap) * s.Confidence}
	}

	sort.SliceStable(rankedSignals, func(i, j int) bool {
		return rankedSignals[i].relevance > rankedSignals[j].relevance
	})

	n := min(m.cfg.TopSignals, len(rankedSignals))
	top := make([]recommend.Signal, n)
	for i := 0; i < n; i++ {
		top[i] = rankedSignals[i].signal
	}
	return top
}

// contradictionRelevance returns the contradiction whose stated and revealed
// words appear most in the candidate's signal texts, or nil when none appear.
// Containment is substring-based, so "quiet" matches "quietly".
func (m *Matcher) contradictionRelevance(signals []recommend.Signal, contradictions []recommend.Contradiction) *recommend.ContradictionMatch {
	if len(contradictions) == 0 || len(signals) == 0 {
		return nil
	}

	texts := make([]string, len(signals))
	for i, s := range signals {
		texts[i] = s.Text
	}
	haystack := strings.ToLower(strings.Join(texts, " "))

	var best *recommend.ContradictionMatch
	bestScore := 0

	for _, c := range contradictions {
		stated := countContained(recommend.Tokenize(c.Stated), haystack)
		revealed := countContained(recommend.Tokenize(c.Revealed), haystack)
		both := stated > 0 && revealed > 0

		score := stated + revealed
		if both {
			score += m.cfg.BothSidesBonus
		}

		if score > bestScore {
			bestScore = score
			best = &recommend.ContradictionMatch{
				Contradiction:   c,
				CoversBothSides: both,
				StatedOverlap:   stated,
				RevealedOverlap: revealed,
			}
		}
	}

	return best
}

func countContained(words []string, haystack string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(haystack, w) {
			n++
		}
	}
	return n
}
