// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package allocation

import (
	"github.com/tomtom215/tastefeed/internal/recommend"
)

// Predicate decides whether a candidate is eligible for a slot.
type Predicate func(c *recommend.ScoredCandidate) bool

// Any accepts every candidate.
func Any() Predicate {
	return func(*recommend.ScoredCandidate) bool { return true }
}

// HasTopDimension accepts candidates whose top dimension is d.
func HasTopDimension(d recommend.Domain) Predicate {
	return func(c *recommend.ScoredCandidate) bool {
		return c.TopDimension == d
	}
}

// TopDimensionNotIn accepts candidates whose top dimension is not in the set.
func TopDimensionNotIn(domains map[recommend.Domain]struct{}) Predicate {
	return func(c *recommend.ScoredCandidate) bool {
		_, ok := domains[c.TopDimension]
		return !ok
	}
}

// CoversBothSides accepts candidates that speak to both the stated and the
// revealed side of a contradiction.
func CoversBothSides() Predicate {
	return func(c *recommend.ScoredCandidate) bool {
		return c.ContradictionRelevance != nil && c.ContradictionRelevance.CoversBothSides
	}
}

// ScoreAtMost accepts candidates with an overall score of at most limit.
func ScoreAtMost(limit int) Predicate {
	return func(c *recommend.ScoredCandidate) bool {
		return c.OverallScore <= limit
	}
}

// HasDomainAtLeast accepts candidates with any breakdown value >= limit.
func HasDomainAtLeast(limit int) Predicate {
	return func(c *recommend.ScoredCandidate) bool {
		for _, d := range recommend.Domains {
			if v, ok := c.DomainBreakdown[d]; ok && v >= limit {
				return true
			}
		}
		return false
	}
}

// HasDomainAtMost accepts candidates with any breakdown value <= limit.
func HasDomainAtMost(limit int) Predicate {
	return func(c *recommend.ScoredCandidate) bool {
		for _, d := range recommend.Domains {
			if v, ok := c.DomainBreakdown[d]; ok && v <= limit {
				return true
			}
		}
		return false
	}
}

// IsStretch accepts lower-scoring candidates with one standout domain and one
// weak domain.
func IsStretch(cfg recommend.AllocationConfig) Predicate {
	return And(
		ScoreAtMost(cfg.StretchMaxScore),
		HasDomainAtLeast(cfg.StretchStrongDomain),
		HasDomainAtMost(cfg.StretchWeakDomain),
	)
}

// And accepts candidates accepted by every predicate.
func And(preds ...Predicate) Predicate {
	return func(c *recommend.ScoredCandidate) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(c *recommend.ScoredCandidate) bool {
		return !p(c)
	}
}
