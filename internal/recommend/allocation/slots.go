// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package allocation

import (
	"strings"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

// DeepMatch takes the highest-ranked unused candidate.
func DeepMatch(p *Pool) *recommend.ScoredCandidate {
	c, ok := p.TakeFirst(Any())
	if !ok {
		return nil
	}
	return &c
}

// BecauseYou takes up to n cards. The first pass accepts one candidate per top
// dimension; if that yields fewer than n cards, a second pass fills the rest
// in rank order regardless of domain.
func BecauseYou(p *Pool, n int) []recommend.BecauseYouCard {
	var cards []recommend.BecauseYouCard
	seen := make(map[recommend.Domain]struct{})

	for len(cards) < n {
		c, ok := p.TakeFirst(TopDimensionNotIn(seen))
		if !ok {
			break
		}
		seen[c.TopDimension] = struct{}{}
		cards = append(cards, newBecauseYouCard(c))
	}

	for _, c := range p.TakeN(n-len(cards), Any()) {
		cards = append(cards, newBecauseYouCard(c))
	}
	return cards
}

//nolint:gocritic // hugeParam: card owns its candidate copy
func newBecauseYouCard(c recommend.ScoredCandidate) recommend.BecauseYouCard {
	card := recommend.BecauseYouCard{Candidate: c, Domain: c.TopDimension}
	if s, ok := c.BestSignal(); ok {
		card.Signal = &s
		if d, ok := s.Domain(); ok {
			card.Domain = d
		}
	}
	return card
}

// TasteTension takes the first candidate covering both sides of a
// contradiction. It is only attempted when the user has contradictions.
func TasteTension(p *Pool, contradictions []recommend.Contradiction) *recommend.TasteTension {
	if len(contradictions) == 0 {
		return nil
	}
	c, ok := p.TakeFirst(CoversBothSides())
	if !ok {
		return nil
	}
	return &recommend.TasteTension{
		Candidate:     c,
		Contradiction: c.ContradictionRelevance.Contradiction,
	}
}

// threadKey is one row of the signal thread frequency table.
type threadKey struct {
	key        string
	domain     recommend.Domain
	support    int
	candidates []recommend.ScoredCandidate
	ids        map[string]struct{}
}

// SignalThread groups unused candidates that share a matching signal. Each
// candidate's first SignalThreadSignals matching signals are normalized into
// keys; the key with the most support and at least two distinct candidates
// wins, and up to SignalThreadSize of its candidates are taken. Support ties
// go to the key seen first.
//
// When no key qualifies the thread is labelled with the user's first
// micro-signal and carries no candidates.
func SignalThread(p *Pool, cfg recommend.AllocationConfig, microSignals recommend.MicroSignals) recommend.SignalThread {
	var order []*threadKey
	table := make(map[string]*threadKey)

	for _, c := range p.Unused() {
		n := min(cfg.SignalThreadSignals, len(c.TopMatchingSignals))
		for _, s := range c.TopMatchingSignals[:n] {
			key := normalizeSignalKey(s.Text, cfg.SignalKeyLength)
			if key == "" {
				continue
			}
			row, ok := table[key]
			if !ok {
				d, mapped := s.Domain()
				if !mapped {
					d = c.TopDimension
				}
				row = &threadKey{key: key, domain: d, ids: make(map[string]struct{})}
				table[key] = row
				order = append(order, row)
			}
			row.support++
			if _, dup := row.ids[c.ID]; !dup {
				row.ids[c.ID] = struct{}{}
				row.candidates = append(row.candidates, c)
			}
		}
	}

	var best *threadKey
	for _, row := range order {
		if len(row.candidates) < 2 {
			continue
		}
		if best == nil || row.support > best.support {
			best = row
		}
	}

	if best == nil {
		signal, domain := fallbackThreadLabel(microSignals)
		return recommend.SignalThread{Signal: signal, Domain: domain}
	}

	taken := best.candidates[:min(cfg.SignalThreadSize, len(best.candidates))]
	p.Take(taken...)
	return recommend.SignalThread{
		Signal:     best.key,
		Domain:     best.domain,
		Candidates: taken,
	}
}

// normalizeSignalKey lowercases and trims text and truncates it to limit runes.
func normalizeSignalKey(text string, limit int) string {
	key := []rune(strings.ToLower(strings.TrimSpace(text)))
	if len(key) > limit {
		key = key[:limit]
	}
	return string(key)
}

// fallbackThreadLabel returns the first micro-signal of the first domain, in
// canonical order, that has one.
func fallbackThreadLabel(microSignals recommend.MicroSignals) (string, recommend.Domain) {
	for _, d := range recommend.Domains {
		if list := microSignals[d]; len(list) > 0 {
			return list[0], d
		}
	}
	return "", ""
}

// Stretch takes the first unused candidate that qualifies as a stretch pick and
// records its strongest and weakest domains.
func Stretch(p *Pool, cfg recommend.AllocationConfig) *recommend.StretchPick {
	c, ok := p.TakeFirst(IsStretch(cfg))
	if !ok {
		return nil
	}
	strong, weak := extremeDomains(c.DomainBreakdown)
	return &recommend.StretchPick{
		Candidate:    c,
		StrongDomain: strong,
		WeakDomain:   weak,
	}
}

// extremeDomains returns the highest and lowest valued domains. Ties go to the
// earlier domain in canonical order.
func extremeDomains(breakdown map[recommend.Domain]int) (strongest, weakest recommend.Domain) {
	hi, lo := -1, 101
	for _, d := range recommend.Domains {
		v, ok := breakdown[d]
		if !ok {
			continue
		}
		if v > hi {
			hi, strongest = v, d
		}
		if v < lo {
			lo, weakest = v, d
		}
	}
	return strongest, weakest
}

// Weekly builds the weekly collection from the dominant top dimension among
// unused candidates. If fewer than WeeklyMinDomainMatches candidates share
// that dimension, the collection is topped up in rank order with any unused
// candidates. The dominant domain is returned even when the collection is
// empty so mood boards can skip it.
func Weekly(p *Pool, cfg recommend.AllocationConfig) recommend.DomainCollection {
	dominant, ok := dominantDomain(p.Unused())
	if !ok {
		return recommend.DomainCollection{}
	}

	picked := p.TakeN(cfg.WeeklySize, HasTopDimension(dominant))
	if len(picked) < cfg.WeeklyMinDomainMatches {
		picked = append(picked, p.TakeN(cfg.WeeklySize-len(picked), Any())...)
	}

	return recommend.DomainCollection{Domain: dominant, Candidates: picked}
}

// dominantDomain returns the most frequent top dimension. Ties go to the
// earlier domain in canonical order.
//
//nolint:gocritic // rangeValCopy: ScoredCandidate copied for clarity
func dominantDomain(candidates []recommend.ScoredCandidate) (recommend.Domain, bool) {
	counts := make(map[recommend.Domain]int)
	for _, c := range candidates {
		counts[c.TopDimension]++
	}

	var best recommend.Domain
	bestCount := 0
	for _, d := range recommend.Domains {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best, bestCount > 0
}

// MoodBoards walks the domains in canonical order, skipping skip, and keeps a
// board for each domain with at least MoodBoardMinSize unused candidates.
// Candidates of a rejected board stay available.
func MoodBoards(p *Pool, cfg recommend.AllocationConfig, skip recommend.Domain) []recommend.DomainCollection {
	var boards []recommend.DomainCollection
	for _, d := range recommend.Domains {
		if len(boards) >= cfg.MoodBoards {
			break
		}
		if d == skip {
			continue
		}
		found := p.Peek(cfg.MoodBoardSize, HasTopDimension(d))
		if len(found) < cfg.MoodBoardMinSize || len(found) == 0 {
			continue
		}
		p.Take(found...)
		boards = append(boards, recommend.DomainCollection{Domain: d, Candidates: found})
	}
	return boards
}

// ContextRecs takes up to n of the remaining candidates in rank order under the
// caller-supplied label.
func ContextRecs(p *Pool, n int, label string) recommend.ContextRecs {
	return recommend.ContextRecs{
		Label:      label,
		Candidates: p.TakeN(n, Any()),
	}
}
