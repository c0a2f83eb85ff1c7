// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package allocation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

func TestDeepMatch(t *testing.T) {
	t.Parallel()

	t.Run("top ranked", func(t *testing.T) {
		p := NewPool(ranked(3, recommend.DomainFood))
		got := DeepMatch(p)
		if got == nil || got.ID != "c00" {
			t.Fatalf("DeepMatch() = %v, want c00", got)
		}
		if !p.Used("c00") {
			t.Error("deep match not marked used")
		}
	})

	t.Run("empty pool", func(t *testing.T) {
		if got := DeepMatch(NewPool(nil)); got != nil {
			t.Errorf("DeepMatch(empty) = %v, want nil", got.ID)
		}
	})
}

func TestBecauseYou(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []recommend.ScoredCandidate
		n       int
		wantIDs []string
	}{
		{
			name: "diversified first",
			in: []recommend.ScoredCandidate{
				cand("f1", 90, recommend.DomainFood),
				cand("f2", 89, recommend.DomainFood),
				cand("d1", 88, recommend.DomainDesign),
				cand("d2", 87, recommend.DomainDesign),
				cand("w1", 50, recommend.DomainWellness),
			},
			n:       3,
			wantIDs: []string{"f1", "d1", "w1"},
		},
		{
			name: "fallback fills in rank order",
			in: []recommend.ScoredCandidate{
				cand("f1", 90, recommend.DomainFood),
				cand("f2", 89, recommend.DomainFood),
				cand("d1", 88, recommend.DomainDesign),
				cand("f3", 87, recommend.DomainFood),
			},
			n:       3,
			wantIDs: []string{"f1", "d1", "f2"},
		},
		{
			name:    "fewer candidates than cards",
			in:      ranked(2, recommend.DomainFood),
			n:       3,
			wantIDs: []string{"c00", "c01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cards := BecauseYou(NewPool(tt.in), tt.n)
			got := make([]string, len(cards))
			for i := range cards {
				got[i] = cards[i].Candidate.ID
			}
			if !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("BecauseYou() = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestBecauseYou_CardReason(t *testing.T) {
	t.Parallel()

	withSignal := withSignals(cand("a", 90, recommend.DomainDesign), "raw concrete")
	withSignal.TopMatchingSignals[0].Dimension = "Food & Drink"
	noSignal := cand("b", 80, recommend.DomainCharacter)

	cards := BecauseYou(NewPool([]recommend.ScoredCandidate{withSignal, noSignal}), 3)
	if len(cards) != 2 {
		t.Fatalf("len(cards) = %d, want 2", len(cards))
	}

	if cards[0].Signal == nil || cards[0].Signal.Text != "raw concrete" {
		t.Errorf("cards[0].Signal = %v, want raw concrete", cards[0].Signal)
	}
	if cards[0].Domain != recommend.DomainFood {
		t.Errorf("cards[0].Domain = %q, want signal's domain Food", cards[0].Domain)
	}
	if cards[1].Signal != nil {
		t.Errorf("cards[1].Signal = %v, want nil", cards[1].Signal)
	}
	if cards[1].Domain != recommend.DomainCharacter {
		t.Errorf("cards[1].Domain = %q, want top dimension Character", cards[1].Domain)
	}
}

func TestTasteTension(t *testing.T) {
	t.Parallel()

	contradiction := recommend.Contradiction{Stated: "quiet", Revealed: "loud"}
	tense := cand("tense", 40, recommend.DomainCharacter)
	tense.ContradictionRelevance = &recommend.ContradictionMatch{Contradiction: contradiction, CoversBothSides: true}
	half := cand("half", 90, recommend.DomainCharacter)
	half.ContradictionRelevance = &recommend.ContradictionMatch{Contradiction: contradiction, StatedOverlap: 1}
	in := []recommend.ScoredCandidate{half, tense}

	t.Run("selects first covering both sides", func(t *testing.T) {
		got := TasteTension(NewPool(in), []recommend.Contradiction{contradiction})
		if got == nil || got.Candidate.ID != "tense" {
			t.Fatalf("TasteTension() = %v, want tense", got)
		}
		if got.Contradiction != contradiction {
			t.Errorf("Contradiction = %+v, want %+v", got.Contradiction, contradiction)
		}
	})

	t.Run("skipped without contradictions", func(t *testing.T) {
		p := NewPool(in)
		if got := TasteTension(p, nil); got != nil {
			t.Errorf("TasteTension(nil) = %v, want nil", got.Candidate.ID)
		}
		if p.Remaining() != 2 {
			t.Errorf("Remaining() = %d, want 2", p.Remaining())
		}
	})

	t.Run("none qualifies", func(t *testing.T) {
		got := TasteTension(NewPool([]recommend.ScoredCandidate{half}), []recommend.Contradiction{contradiction})
		if got != nil {
			t.Errorf("TasteTension() = %v, want nil", got.Candidate.ID)
		}
	})
}

func TestSignalThread(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	food := recommend.DomainFood

	t.Run("highest support with two candidates", func(t *testing.T) {
		in := []recommend.ScoredCandidate{
			withSignals(cand("a", 90, food), "Natural wine list", "raw concrete"),
			withSignals(cand("b", 80, food), "natural wine list  ", "garden"),
			withSignals(cand("c", 70, food), "raw concrete", "natural wine list"),
			withSignals(cand("d", 60, food), "garden"),
		}
		p := NewPool(in)

		got := SignalThread(p, cfg, nil)
		if got.Signal != "natural wine list" {
			t.Errorf("Signal = %q, want natural wine list", got.Signal)
		}
		if got.Domain != food {
			t.Errorf("Domain = %q, want Food", got.Domain)
		}
		if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids(got.Candidates), want) {
			t.Errorf("Candidates = %v, want %v", ids(got.Candidates), want)
		}
		if p.Remaining() != 1 {
			t.Errorf("Remaining() = %d, want 1", p.Remaining())
		}
	})

	t.Run("single candidate support does not qualify", func(t *testing.T) {
		in := []recommend.ScoredCandidate{
			withSignals(cand("solo", 90, food), "spa", "spa", "spa"),
			withSignals(cand("x", 80, food), "garden"),
			withSignals(cand("y", 70, food), "garden"),
		}
		got := SignalThread(NewPool(in), cfg, nil)
		if got.Signal != "garden" {
			t.Errorf("Signal = %q, want garden", got.Signal)
		}
		if want := []string{"x", "y"}; !reflect.DeepEqual(ids(got.Candidates), want) {
			t.Errorf("Candidates = %v, want %v", ids(got.Candidates), want)
		}
	})

	t.Run("support ties go to first key", func(t *testing.T) {
		in := []recommend.ScoredCandidate{
			withSignals(cand("a", 90, food), "rooftop bar", "garden"),
			withSignals(cand("b", 80, food), "garden", "rooftop bar"),
		}
		got := SignalThread(NewPool(in), cfg, nil)
		if got.Signal != "rooftop bar" {
			t.Errorf("Signal = %q, want rooftop bar", got.Signal)
		}
	})

	t.Run("only top signals count", func(t *testing.T) {
		in := []recommend.ScoredCandidate{
			withSignals(cand("a", 90, food), "one", "two", "three", "shared"),
			withSignals(cand("b", 80, food), "uno", "dos", "tres", "shared"),
		}
		got := SignalThread(NewPool(in), cfg, recommend.MicroSignals{food: {"tasting menus"}})
		if len(got.Candidates) != 0 {
			t.Errorf("Candidates = %v, want none", ids(got.Candidates))
		}
	})

	t.Run("keys truncate", func(t *testing.T) {
		prefix := strings.Repeat("x", cfg.SignalKeyLength)
		in := []recommend.ScoredCandidate{
			withSignals(cand("a", 90, food), prefix+" tail one"),
			withSignals(cand("b", 80, food), prefix+" tail two"),
		}
		got := SignalThread(NewPool(in), cfg, nil)
		if got.Signal != prefix {
			t.Errorf("Signal = %q, want %q", got.Signal, prefix)
		}
		if len(got.Candidates) != 2 {
			t.Errorf("len(Candidates) = %d, want 2", len(got.Candidates))
		}
	})

	t.Run("caps thread size", func(t *testing.T) {
		var in []recommend.ScoredCandidate
		for _, c := range ranked(5, food) {
			in = append(in, withSignals(c, "garden"))
		}
		got := SignalThread(NewPool(in), cfg, nil)
		if len(got.Candidates) != cfg.SignalThreadSize {
			t.Errorf("len(Candidates) = %d, want %d", len(got.Candidates), cfg.SignalThreadSize)
		}
	})

	t.Run("fallback label", func(t *testing.T) {
		in := []recommend.ScoredCandidate{
			withSignals(cand("a", 90, food), "garden"),
			withSignals(cand("b", 80, food), "rooftop"),
		}
		p := NewPool(in)
		micro := recommend.MicroSignals{
			recommend.DomainFood:      {"tasting menus"},
			recommend.DomainCharacter: {"family run", "quirky"},
		}

		got := SignalThread(p, cfg, micro)
		if got.Signal != "family run" || got.Domain != recommend.DomainCharacter {
			t.Errorf("fallback = (%q, %q), want (family run, Character)", got.Signal, got.Domain)
		}
		if len(got.Candidates) != 0 {
			t.Errorf("Candidates = %v, want none", ids(got.Candidates))
		}
		if p.Remaining() != 2 {
			t.Errorf("Remaining() = %d, want 2", p.Remaining())
		}
	})
}

func TestStretch(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	tooHigh := cand("too-high", 80, recommend.DomainDesign)
	tooHigh.DomainBreakdown[recommend.DomainDesign] = 90
	tooHigh.DomainBreakdown[recommend.DomainFood] = 10

	flat := cand("flat", 55, recommend.DomainDesign)

	stretch := cand("stretch", 60, recommend.DomainDesign)
	stretch.DomainBreakdown[recommend.DomainDesign] = 75
	stretch.DomainBreakdown[recommend.DomainFood] = 40

	p := NewPool([]recommend.ScoredCandidate{tooHigh, flat, stretch})
	got := Stretch(p, cfg)
	if got == nil {
		t.Fatal("Stretch() = nil, want stretch")
	}
	if got.Candidate.ID != "stretch" {
		t.Errorf("Candidate = %q, want stretch", got.Candidate.ID)
	}
	if got.StrongDomain != recommend.DomainDesign || got.WeakDomain != recommend.DomainFood {
		t.Errorf("domains = (%q, %q), want (Design, Food)", got.StrongDomain, got.WeakDomain)
	}

	if again := Stretch(p, cfg); again != nil {
		t.Errorf("second Stretch() = %q, want nil", again.Candidate.ID)
	}
}

func TestWeekly(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	d, f := recommend.DomainDesign, recommend.DomainFood

	tests := []struct {
		name       string
		in         []recommend.ScoredCandidate
		wantDomain recommend.Domain
		wantIDs    []string
	}{
		{
			name:       "caps at weekly size",
			in:         ranked(7, f),
			wantDomain: f,
			wantIDs:    []string{"c00", "c01", "c02", "c03", "c04"},
		},
		{
			name: "tops up when domain matches are few",
			in: []recommend.ScoredCandidate{
				cand("d1", 90, d),
				cand("f1", 80, f),
				cand("f2", 70, f),
			},
			wantDomain: f,
			wantIDs:    []string{"f1", "f2", "d1"},
		},
		{
			name: "no top up at the minimum",
			in: []recommend.ScoredCandidate{
				cand("d1", 90, d),
				cand("f1", 80, f),
				cand("f2", 70, f),
				cand("f3", 60, f),
			},
			wantDomain: f,
			wantIDs:    []string{"f1", "f2", "f3"},
		},
		{
			name: "ties go to canonical order",
			in: []recommend.ScoredCandidate{
				cand("f1", 90, f),
				cand("f2", 80, f),
				cand("d1", 70, d),
				cand("d2", 60, d),
			},
			wantDomain: d,
			wantIDs:    []string{"d1", "d2", "f1", "f2"},
		},
		{
			name: "empty pool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Weekly(NewPool(tt.in), cfg)
			if got.Domain != tt.wantDomain {
				t.Errorf("Domain = %q, want %q", got.Domain, tt.wantDomain)
			}
			if gotIDs := ids(got.Candidates); len(gotIDs) != len(tt.wantIDs) ||
				(len(gotIDs) > 0 && !reflect.DeepEqual(gotIDs, tt.wantIDs)) {
				t.Errorf("Candidates = %v, want %v", gotIDs, tt.wantIDs)
			}
		})
	}
}

func TestMoodBoards(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	in := []recommend.ScoredCandidate{
		cand("design", 95, recommend.DomainDesign),
		cand("char1", 90, recommend.DomainCharacter),
		cand("char2", 85, recommend.DomainCharacter),
		cand("serv1", 80, recommend.DomainService),
		cand("serv2", 75, recommend.DomainService),
		cand("serv3", 74, recommend.DomainService),
		cand("serv4", 73, recommend.DomainService),
		cand("food1", 70, recommend.DomainFood),
		cand("food2", 65, recommend.DomainFood),
	}
	p := NewPool(in)

	boards := MoodBoards(p, cfg, recommend.DomainCharacter)

	if len(boards) != 2 {
		t.Fatalf("len(boards) = %d, want 2", len(boards))
	}
	if boards[0].Domain != recommend.DomainService {
		t.Errorf("boards[0].Domain = %q, want Service", boards[0].Domain)
	}
	if want := []string{"serv1", "serv2", "serv3"}; !reflect.DeepEqual(ids(boards[0].Candidates), want) {
		t.Errorf("boards[0] = %v, want %v", ids(boards[0].Candidates), want)
	}
	if boards[1].Domain != recommend.DomainFood {
		t.Errorf("boards[1].Domain = %q, want Food", boards[1].Domain)
	}

	for _, id := range []string{"design", "char1", "char2", "serv4"} {
		if p.Used(id) {
			t.Errorf("%s used, want available after mood boards", id)
		}
	}
}

func TestContextRecs(t *testing.T) {
	t.Parallel()

	p := NewPool(ranked(6, recommend.DomainFood))
	p.Take(cand("c01", 0, ""))

	got := ContextRecs(p, 4, "with partner")
	if got.Label != "with partner" {
		t.Errorf("Label = %q, want with partner", got.Label)
	}
	if want := []string{"c00", "c02", "c03", "c04"}; !reflect.DeepEqual(ids(got.Candidates), want) {
		t.Errorf("Candidates = %v, want %v", ids(got.Candidates), want)
	}
}
