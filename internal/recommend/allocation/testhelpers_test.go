// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package allocation

import (
	"fmt"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

// cand builds a scored candidate with a flat breakdown of 50.
func cand(id string, score int, top recommend.Domain) recommend.ScoredCandidate {
	breakdown := make(map[recommend.Domain]int, len(recommend.Domains))
	for _, d := range recommend.Domains {
		breakdown[d] = 50
	}
	return recommend.ScoredCandidate{
		CandidateProperty: recommend.CandidateProperty{ID: id, Name: id},
		OverallScore:      score,
		SignalScore:       score,
		DomainBreakdown:   breakdown,
		TopDimension:      top,
	}
}

// withSignals sets the candidate's top matching signals, all in its top dimension.
//
//nolint:gocritic // hugeParam: test helper returns a modified copy
func withSignals(c recommend.ScoredCandidate, texts ...string) recommend.ScoredCandidate {
	c.TopMatchingSignals = make([]recommend.Signal, len(texts))
	for i, text := range texts {
		c.TopMatchingSignals[i] = recommend.Signal{
			Dimension:  string(c.TopDimension),
			Confidence: 0.8,
			Text:       text,
		}
	}
	return c
}

// ranked builds n candidates with descending scores cycling through domains.
func ranked(n int, domains ...recommend.Domain) []recommend.ScoredCandidate {
	out := make([]recommend.ScoredCandidate, n)
	for i := range out {
		out[i] = cand(fmt.Sprintf("c%02d", i), 100-i, domains[i%len(domains)])
	}
	return out
}

func ids(candidates []recommend.ScoredCandidate) []string {
	out := make([]string, len(candidates))
	for i := range candidates {
		out[i] = candidates[i].ID
	}
	return out
}

func testConfig() recommend.AllocationConfig {
	return recommend.DefaultConfig().Allocation
}
