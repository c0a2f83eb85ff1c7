// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all tunables for scoring, blending and allocation.
type Config struct {
	// Matching contains parameters for the signal matcher.
	Matching MatchingConfig `json:"matching"`

	// Vector contains parameters for vector similarity blending.
	Vector VectorConfig `json:"vector"`

	// Allocation contains the slot sizes and eligibility thresholds.
	Allocation AllocationConfig `json:"allocation"`

	// Cache contains candidate snapshot caching parameters.
	Cache CacheConfig `json:"cache"`
}

// MatchingConfig contains parameters for the domain relevance model.
type MatchingConfig struct {
	// Saturation controls how quickly accumulated signal confidence approaches
	// a domain strength of 100. Larger values need more evidence.
	// Default: 1.5.
	Saturation float64 `json:"saturation"`

	// AntiSignalWeight scales how much anti-signal confidence cancels support.
	// Default: 1.5.
	AntiSignalWeight float64 `json:"anti_signal_weight"`

	// CorroborationBoost multiplies the confidence of corroborated signals.
	// Default: 1.2.
	CorroborationBoost float64 `json:"corroboration_boost"`

	// ReliabilityFloor is the multiplier applied to a candidate with
	// reliability 0; reliability 1 applies a multiplier of 1.
	// Default: 0.85.
	ReliabilityFloor float64 `json:"reliability_floor"`

	// TopSignals is the number of matching signals kept per candidate.
	// Default: 5.
	TopSignals int `json:"top_signals"`

	// BothSidesBonus is added to a contradiction's rank when a candidate
	// covers both its stated and revealed side.
	// Default: 5.
	BothSidesBonus int `json:"both_sides_bonus"`
}

// VectorConfig contains parameters for vector similarity blending.
type VectorConfig struct {
	// TopK is the number of nearest neighbours requested from the index.
	// Default: 100.
	TopK int `json:"top_k"`

	// Weight is the share of the vector score in the blended score; the
	// signal score receives 1 - Weight.
	// Default: 0.6.
	Weight float64 `json:"weight"`
}

// AllocationConfig contains slot sizes and per-slot thresholds.
type AllocationConfig struct {
	// MinCandidates is the minimum scored candidate count for a grounded feed.
	// Default: 15.
	MinCandidates int `json:"min_candidates"`

	// BecauseYouCards is the number of "because you" cards.
	// Default: 3.
	BecauseYouCards int `json:"because_you_cards"`

	// SignalThreadSize is the maximum number of candidates in the signal thread.
	// Default: 3.
	SignalThreadSize int `json:"signal_thread_size"`

	// SignalThreadSignals is how many of a candidate's top signals feed the
	// thread frequency table.
	// Default: 3.
	SignalThreadSignals int `json:"signal_thread_signals"`

	// SignalKeyLength truncates normalized signal text used as thread keys.
	// Default: 50.
	SignalKeyLength int `json:"signal_key_length"`

	// StretchMaxScore is the highest overall score a stretch pick may have.
	// Default: 60.
	StretchMaxScore int `json:"stretch_max_score"`

	// StretchStrongDomain is the minimum value of the standout domain.
	// Default: 75.
	StretchStrongDomain int `json:"stretch_strong_domain"`

	// StretchWeakDomain is the maximum value of the weak domain.
	// Default: 40.
	StretchWeakDomain int `json:"stretch_weak_domain"`

	// WeeklySize is the maximum weekly collection size.
	// Default: 5.
	WeeklySize int `json:"weekly_size"`

	// WeeklyMinDomainMatches is the domain-match count below which the weekly
	// collection is topped up with any unused candidates.
	// Default: 3.
	WeeklyMinDomainMatches int `json:"weekly_min_domain_matches"`

	// MoodBoards is the maximum number of mood boards.
	// Default: 2.
	MoodBoards int `json:"mood_boards"`

	// MoodBoardSize is the maximum candidates per mood board.
	// Default: 3.
	MoodBoardSize int `json:"mood_board_size"`

	// MoodBoardMinSize is the minimum candidates for a board to be kept.
	// Default: 2.
	MoodBoardMinSize int `json:"mood_board_min_size"`

	// ContextRecs is the maximum number of context recommendations.
	// Default: 4.
	ContextRecs int `json:"context_recs"`
}

// CacheConfig contains candidate snapshot caching parameters.
type CacheConfig struct {
	// TTL is how long a fetched candidate snapshot is served before re-fetching.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Matching: MatchingConfig{
			Saturation:         1.5,
			AntiSignalWeight:   1.5,
			CorroborationBoost: 1.2,
			ReliabilityFloor:   0.85,
			TopSignals:         5,
			BothSidesBonus:     5,
		},
		Vector: VectorConfig{
			TopK:   100,
			Weight: 0.6,
		},
		Allocation: AllocationConfig{
			MinCandidates:          15,
			BecauseYouCards:        3,
			SignalThreadSize:       3,
			SignalThreadSignals:    3,
			SignalKeyLength:        50,
			StretchMaxScore:        60,
			StretchStrongDomain:    75,
			StretchWeakDomain:      40,
			WeeklySize:             5,
			WeeklyMinDomainMatches: 3,
			MoodBoards:             2,
			MoodBoardSize:          3,
			MoodBoardMinSize:       2,
			ContextRecs:            4,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Matching.Saturation <= 0 {
		return fmt.Errorf("matching.saturation must be positive, got %f", c.Matching.Saturation)
	}
	if c.Matching.AntiSignalWeight < 0 {
		return fmt.Errorf("matching.anti_signal_weight must be non-negative, got %f", c.Matching.AntiSignalWeight)
	}
	if c.Matching.CorroborationBoost < 1 {
		return fmt.Errorf("matching.corroboration_boost must be >= 1, got %f", c.Matching.CorroborationBoost)
	}
	if c.Matching.ReliabilityFloor < 0 || c.Matching.ReliabilityFloor > 1 {
		return fmt.Errorf("matching.reliability_floor must be in [0, 1], got %f", c.Matching.ReliabilityFloor)
	}
	if c.Matching.TopSignals < 1 {
		return fmt.Errorf("matching.top_signals must be positive, got %d", c.Matching.TopSignals)
	}
	if c.Matching.BothSidesBonus < 0 {
		return fmt.Errorf("matching.both_sides_bonus must be non-negative, got %d", c.Matching.BothSidesBonus)
	}

	if c.Vector.TopK < 1 {
		return fmt.Errorf("vector.top_k must be positive, got %d", c.Vector.TopK)
	}
	if c.Vector.Weight < 0 || c.Vector.Weight > 1 {
		return fmt.Errorf("vector.weight must be in [0, 1], got %f", c.Vector.Weight)
	}

	a := c.Allocation
	if a.MinCandidates < 1 {
		return fmt.Errorf("allocation.min_candidates must be positive, got %d", a.MinCandidates)
	}
	if a.SignalKeyLength < 1 {
		return fmt.Errorf("allocation.signal_key_length must be positive, got %d", a.SignalKeyLength)
	}
	if a.StretchWeakDomain >= a.StretchStrongDomain {
		return fmt.Errorf("allocation.stretch_weak_domain must be < stretch_strong_domain, got %d >= %d",
			a.StretchWeakDomain, a.StretchStrongDomain)
	}
	if a.WeeklyMinDomainMatches > a.WeeklySize {
		return fmt.Errorf("allocation.weekly_min_domain_matches must be <= weekly_size, got %d > %d",
			a.WeeklyMinDomainMatches, a.WeeklySize)
	}
	if a.MoodBoardMinSize > a.MoodBoardSize {
		return fmt.Errorf("allocation.mood_board_min_size must be <= mood_board_size, got %d > %d",
			a.MoodBoardMinSize, a.MoodBoardSize)
	}
	for name, v := range map[string]int{
		"because_you_cards":     a.BecauseYouCards,
		"signal_thread_size":    a.SignalThreadSize,
		"signal_thread_signals": a.SignalThreadSignals,
		"weekly_size":           a.WeeklySize,
		"mood_boards":           a.MoodBoards,
		"mood_board_size":       a.MoodBoardSize,
		"context_recs":          a.ContextRecs,
	} {
		if v < 0 {
			return fmt.Errorf("allocation.%s must be non-negative, got %d", name, v)
		}
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Cache struct {
			TTL string `json:"ttl"`
		} `json:"cache"`
	}{
		Alias: (*Alias)(c),
		Cache: struct {
			TTL string `json:"ttl"`
		}{
			TTL: c.Cache.TTL.String(),
		},
	})
}
