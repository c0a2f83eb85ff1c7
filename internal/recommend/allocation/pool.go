// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package allocation

import (
	"github.com/tomtom215/tastefeed/internal/recommend"
)

// Pool is the allocation context: the ranked candidates plus the IDs already
// placed in a slot. Every slot step takes candidates through the Pool, which
// is what keeps IDs unique across the whole feed.
//
// A Pool is not safe for concurrent use.
type Pool struct {
	ranked []recommend.ScoredCandidate
	used   map[string]struct{}
}

// NewPool creates a pool over candidates already sorted by rank.
func NewPool(ranked []recommend.ScoredCandidate) *Pool {
	return &Pool{
		ranked: ranked,
		used:   make(map[string]struct{}, len(ranked)),
	}
}

// Used reports whether the candidate ID has been placed.
func (p *Pool) Used(id string) bool {
	_, ok := p.used[id]
	return ok
}

// Remaining returns the number of unused candidates.
func (p *Pool) Remaining() int {
	n := 0
	for i := range p.ranked {
		if !p.Used(p.ranked[i].ID) {
			n++
		}
	}
	return n
}

// Unused returns the unused candidates in rank order without taking them.
func (p *Pool) Unused() []recommend.ScoredCandidate {
	return p.Peek(len(p.ranked), Any())
}

// Peek returns up to n unused candidates matching pred in rank order,
// without marking them used.
func (p *Pool) Peek(n int, pred Predicate) []recommend.ScoredCandidate {
	var out []recommend.ScoredCandidate
	seen := make(map[string]struct{})
	for i := range p.ranked {
		if len(out) >= n {
			break
		}
		c := &p.ranked[i]
		if p.Used(c.ID) || !pred(c) {
			continue
		}
		// Duplicate IDs in the ranked input count once.
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, *c)
	}
	return out
}

// Take marks the candidates used.
//
//nolint:gocritic // rangeValCopy: ScoredCandidate copied for clarity
func (p *Pool) Take(candidates ...recommend.ScoredCandidate) {
	for _, c := range candidates {
		p.used[c.ID] = struct{}{}
	}
}

// TakeFirst takes the highest-ranked unused candidate matching pred.
func (p *Pool) TakeFirst(pred Predicate) (recommend.ScoredCandidate, bool) {
	found := p.Peek(1, pred)
	if len(found) == 0 {
		return recommend.ScoredCandidate{}, false
	}
	p.Take(found[0])
	return found[0], true
}

// TakeN takes up to n unused candidates matching pred in rank order.
func (p *Pool) TakeN(n int, pred Predicate) []recommend.ScoredCandidate {
	found := p.Peek(n, pred)
	p.Take(found...)
	return found
}
