// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package matching

import (
	"math"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

// relevanceResult is the output of the domain relevance model.
type relevanceResult struct {
	overall      int
	breakdown    map[recommend.Domain]int
	topDimension recommend.Domain
}

// relevance maps a candidate's signals and anti-signals onto the six domains
// and weights them by the user's affinities.
//
//nolint:gocritic // hugeParam: candidate passed by value, it is never modified
func (m *Matcher) relevance(candidate recommend.CandidateProperty, profile recommend.TasteProfile) relevanceResult {
	strengths := m.domainStrengths(candidate)

	breakdown := make(map[recommend.Domain]int, len(recommend.Domains))
	var weighted, affinityTotal, strengthTotal float64

	for _, d := range recommend.Domains {
		breakdown[d] = clampScore(math.Round(strengths[d]))

		affinity := clamp(profile[d], 0, 100)
		weighted += affinity * strengths[d]
		affinityTotal += affinity
		strengthTotal += strengths[d]
	}

	var overall float64
	if affinityTotal > 0 {
		overall = weighted / affinityTotal
	} else {
		overall = strengthTotal / float64(len(recommend.Domains))
	}

	if candidate.ReliabilityScore != nil {
		r := clamp(*candidate.ReliabilityScore, 0, 1)
		overall *= m.cfg.ReliabilityFloor + (1-m.cfg.ReliabilityFloor)*r
	}

	return relevanceResult{
		overall:      clampScore(math.Round(overall)),
		breakdown:    breakdown,
		topDimension: topDimension(strengths, profile),
	}
}

// domainStrengths returns the 0-100 strength of each domain.
//
//nolint:gocritic // hugeParam: candidate passed by value, it is never modified
func (m *Matcher) domainStrengths(candidate recommend.CandidateProperty) map[recommend.Domain]float64 {
	support := make(map[recommend.Domain]float64, len(recommend.Domains))
	anti := make(map[recommend.Domain]float64, len(recommend.Domains))

	for _, s := range candidate.Signals {
		d, ok := s.Domain()
		if !ok {
			continue
		}
		w := clamp(s.Confidence, 0, 1)
		if s.Corroborated {
			w *= m.cfg.CorroborationBoost
		}
		support[d] += w
	}

	for _, s := range candidate.AntiSignals {
		if d, ok := s.Domain(); ok {
			anti[d] += clamp(s.Confidence, 0, 1)
		}
	}

	strengths := make(map[recommend.Domain]float64, len(recommend.Domains))
	for _, d := range recommend.Domains {
		net := math.Max(0, support[d]-m.cfg.AntiSignalWeight*anti[d])
		strengths[d] = 100 * (1 - math.Exp(-net/m.cfg.Saturation))
	}
	return strengths
}

// topDimension picks the domain with the highest affinity-weighted strength,
// breaking ties by raw strength, then affinity, then canonical order.
func topDimension(strengths map[recommend.Domain]float64, profile recommend.TasteProfile) recommend.Domain {
	best := recommend.Domains[0]
	var bestProduct, bestStrength, bestAffinity float64 = -1, -1, -1

	for _, d := range recommend.Domains {
		affinity := clamp(profile[d], 0, 100)
		product := affinity * strengths[d]

		switch {
		case product > bestProduct,
			product == bestProduct && strengths[d] > bestStrength,
			product == bestProduct && strengths[d] == bestStrength && affinity > bestAffinity:
			best, bestProduct, bestStrength, bestAffinity = d, product, strengths[d], affinity
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampScore(v float64) int {
	return int(clamp(v, 0, 100))
}
