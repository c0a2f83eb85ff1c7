// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package recommend

// Domain is one of the six fixed taste categories.
type Domain string

const (
	// DomainDesign covers architecture, interiors and aesthetic language.
	DomainDesign Domain = "Design"
	// DomainCharacter covers identity, atmosphere and personality.
	DomainCharacter Domain = "Character"
	// DomainService covers hospitality style and staff philosophy.
	DomainService Domain = "Service"
	// DomainFood covers food and drink.
	DomainFood Domain = "Food"
	// DomainLocation covers setting, neighbourhood and context.
	DomainLocation Domain = "Location"
	// DomainWellness covers spa, body and restorative offerings.
	DomainWellness Domain = "Wellness"
)

// Domains lists all domains in canonical order. Every tie-break that depends on
// domain order uses this sequence.
var Domains = [...]Domain{
	DomainDesign,
	DomainCharacter,
	DomainService,
	DomainFood,
	DomainLocation,
	DomainWellness,
}

// Valid reports whether d is one of the six known domains.
func (d Domain) Valid() bool {
	for _, known := range Domains {
		if d == known {
			return true
		}
	}
	return false
}

// String returns the domain name.
func (d Domain) String() string {
	return string(d)
}

// TasteProfile maps each domain to a 0-100 affinity score.
type TasteProfile map[Domain]float64

// MicroSignals maps each domain to an ordered list of short preference phrases.
type MicroSignals map[Domain][]string

// Contradiction is a detected tension between a user's stated and revealed preferences.
type Contradiction struct {
	Stated     string `json:"stated"`
	Revealed   string `json:"revealed"`
	Resolution string `json:"resolution"`
	MatchRule  string `json:"match_rule"`
}

// UserProfile bundles everything the conversational synthesis produces for one user.
type UserProfile struct {
	UserID         string          `json:"user_id" validate:"required"`
	Taste          TasteProfile    `json:"taste" validate:"required,dive,keys,taste_domain,endkeys,min=0,max=100"`
	MicroSignals   MicroSignals    `json:"micro_signals"`
	Contradictions []Contradiction `json:"contradictions"`
	LifeContext    LifeContext     `json:"life_context"`
}

// LifeContext carries opaque labels used only for the Context Recs slot.
type LifeContext struct {
	// Companion is the travel companion label (e.g. "with partner").
	Companion string `json:"companion,omitempty"`

	// Season is the season label (e.g. "Winter").
	Season string `json:"season,omitempty"`
}

// Label returns the display label for context recommendations: the companion
// label when present, otherwise the season.
func (l LifeContext) Label() string {
	if l.Companion != "" {
		return l.Companion
	}
	return l.Season
}

// Signal is an extracted, confidence-scored trait of a property.
// Anti-signals share the same shape and denote rejection of the trait.
type Signal struct {
	// Dimension is the upstream dimension label; see DomainForDimension.
	Dimension string `json:"dimension"`

	// Confidence is the extraction confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// Text is the short phrase describing the trait.
	Text string `json:"text"`

	// SourceType identifies where the signal was extracted from (review, listing, ...).
	SourceType string `json:"source_type,omitempty"`

	// Corroborated is true when more than one source agrees on the trait.
	Corroborated bool `json:"corroborated,omitempty"`
}

// Domain returns the domain this signal's dimension maps to.
func (s Signal) Domain() (Domain, bool) {
	return DomainForDimension(s.Dimension)
}

// CandidateProperty is an enriched, matchable property. It is owned by the
// enrichment pipeline and treated as read-only here.
type CandidateProperty struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Signals     []Signal       `json:"signals"`
	AntiSignals []Signal       `json:"anti_signals"`
	Facts       map[string]any `json:"facts,omitempty"`
	SignalCount int            `json:"signal_count"`

	// ReliabilityScore is the pipeline's confidence in the record, in [0, 1].
	ReliabilityScore *float64 `json:"reliability_score,omitempty"`
}

// ContradictionMatch records the contradiction a candidate speaks to most strongly.
type ContradictionMatch struct {
	Contradiction   Contradiction `json:"contradiction"`
	CoversBothSides bool          `json:"covers_both_sides"`
	StatedOverlap   int           `json:"stated_overlap"`
	RevealedOverlap int           `json:"revealed_overlap"`
}

// ScoredCandidate is a candidate scored against one user's profile.
type ScoredCandidate struct {
	CandidateProperty

	// OverallScore drives ranking and allocation, in [0, 100]. When a vector
	// match exists it holds the blended score.
	OverallScore int `json:"overall_score"`

	// SignalScore is the signal-only score before any vector blending.
	SignalScore int `json:"signal_score"`

	// DomainBreakdown holds a 0-100 match value per domain.
	DomainBreakdown map[Domain]int `json:"domain_breakdown"`

	// TopDimension is the domain contributing most to the match.
	TopDimension Domain `json:"top_dimension"`

	// TopMatchingSignals holds at most five signals, most relevant first.
	TopMatchingSignals []Signal `json:"top_matching_signals"`

	ContradictionRelevance *ContradictionMatch `json:"contradiction_relevance,omitempty"`

	VectorScore  *int `json:"vector_score,omitempty"`
	BlendedScore *int `json:"blended_score,omitempty"`
}

// BestSignal returns the highest-relevance matching signal, if any.
func (c *ScoredCandidate) BestSignal() (Signal, bool) {
	if len(c.TopMatchingSignals) == 0 {
		return Signal{}, false
	}
	return c.TopMatchingSignals[0], true
}

// BecauseYouCard is a single "because you like..." card.
type BecauseYouCard struct {
	Candidate ScoredCandidate `json:"candidate"`

	// Signal is the candidate's best matching signal; nil when it has none.
	Signal *Signal `json:"signal,omitempty"`

	// Domain is the reason domain shown with the card.
	Domain Domain `json:"domain"`
}

// SignalThread groups candidates sharing a common matching signal.
type SignalThread struct {
	Signal     string            `json:"signal"`
	Domain     Domain            `json:"domain"`
	Candidates []ScoredCandidate `json:"candidates"`
}

// TasteTension pairs a candidate with the contradiction it resolves.
type TasteTension struct {
	Candidate     ScoredCandidate `json:"candidate"`
	Contradiction Contradiction   `json:"contradiction"`
}

// DomainCollection is a set of candidates sharing a top dimension.
type DomainCollection struct {
	Domain     Domain            `json:"domain"`
	Candidates []ScoredCandidate `json:"candidates"`
}

// StretchPick is a lower-scoring candidate with one standout domain.
type StretchPick struct {
	Candidate    ScoredCandidate `json:"candidate"`
	StrongDomain Domain          `json:"strong_domain"`
	WeakDomain   Domain          `json:"weak_domain"`
}

// ContextRecs holds the life-context slot.
type ContextRecs struct {
	Label      string            `json:"label"`
	Candidates []ScoredCandidate `json:"candidates"`
}

// AllocatedFeed is the eight-slot output handed to the narrative layer.
// No candidate ID appears in more than one slot.
type AllocatedFeed struct {
	DeepMatch        *ScoredCandidate   `json:"deep_match"`
	BecauseYouCards  []BecauseYouCard   `json:"because_you_cards"`
	SignalThread     SignalThread       `json:"signal_thread"`
	TasteTension     *TasteTension      `json:"taste_tension,omitempty"`
	WeeklyCollection DomainCollection   `json:"weekly_collection"`
	MoodBoards       []DomainCollection `json:"mood_boards"`
	StretchPick      *StretchPick       `json:"stretch_pick,omitempty"`
	ContextRecs      ContextRecs        `json:"context_recs"`
}

// CandidateIDs returns every allocated candidate ID in slot order.
func (f *AllocatedFeed) CandidateIDs() []string {
	var ids []string
	if f.DeepMatch != nil {
		ids = append(ids, f.DeepMatch.ID)
	}
	for i := range f.BecauseYouCards {
		ids = append(ids, f.BecauseYouCards[i].Candidate.ID)
	}
	if f.TasteTension != nil {
		ids = append(ids, f.TasteTension.Candidate.ID)
	}
	ids = appendIDs(ids, f.SignalThread.Candidates)
	if f.StretchPick != nil {
		ids = append(ids, f.StretchPick.Candidate.ID)
	}
	ids = appendIDs(ids, f.WeeklyCollection.Candidates)
	for i := range f.MoodBoards {
		ids = appendIDs(ids, f.MoodBoards[i].Candidates)
	}
	return appendIDs(ids, f.ContextRecs.Candidates)
}

//nolint:gocritic // rangeValCopy: ScoredCandidate copied for clarity
func appendIDs(ids []string, candidates []ScoredCandidate) []string {
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}
