// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

// Package matching scores candidate properties against a user's taste profile.
//
// For each candidate the Matcher produces:
//
//   - OverallScore (0-100): affinity-weighted mean of per-domain strengths
//   - DomainBreakdown: per-domain strength (0-100) from signals and anti-signals
//   - TopDimension: the domain contributing most to the match
//   - TopMatchingSignals: up to five signals ranked by overlap with the
//     user's micro-signal vocabulary, weighted by confidence
//   - ContradictionRelevance: the user contradiction the candidate speaks to
//     most strongly, if any
//
// # Domain Strength
//
// Signal confidences are summed per domain (corroborated signals boosted),
// anti-signal confidence is subtracted with a weight, and the net evidence is
// squashed onto 0-100:
//
//	strength(d) = 100 * (1 - exp(-max(0, support(d) - w*anti(d)) / saturation))
//
// # Purity
//
// ScoreCandidate is a pure function: identical inputs produce identical
// output, and inputs are never modified.
package matching
