// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

// InvalidationSource labels cache invalidations triggered by events.
const InvalidationSource = "nats"

// ErrEmptyPayload is returned by the payload parsers for an empty body.
var ErrEmptyPayload = errors.New("empty event payload")

// StatusComplete is the enrichment status of a matchable candidate.
const StatusComplete = "complete"

// EnrichmentCompleted announces that a property finished enrichment.
//
// Candidate and Embedding are optional. When present they are persisted
// before the snapshot is invalidated; a bare announcement only invalidates.
type EnrichmentCompleted struct {
	PropertyID  string    `json:"property_id"`
	Status      string    `json:"status"`
	SignalCount int       `json:"signal_count,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`

	// Candidate is the enriched record; its ID must match PropertyID.
	Candidate *recommend.CandidateProperty `json:"candidate,omitempty"`

	// Embedding is the property's vector for nearest-neighbour lookups.
	Embedding []float32 `json:"embedding,omitempty"`
}

// ProfileUpdated carries a user's synthesized taste profile and/or learned
// preference vector.
type ProfileUpdated struct {
	UserID           string                 `json:"user_id"`
	Profile          *recommend.UserProfile `json:"profile,omitempty"`
	PreferenceVector []float32              `json:"preference_vector,omitempty"`
	UpdatedAt        time.Time              `json:"updated_at,omitempty"`
}

// ParseEnrichmentCompleted decodes an enrichment event payload.
func ParseEnrichmentCompleted(payload []byte) (*EnrichmentCompleted, error) {
	var event EnrichmentCompleted
	if err := decode(payload, &event); err != nil {
		return nil, fmt.Errorf("decode enrichment event: %w", err)
	}
	return &event, nil
}

// ParseProfileUpdated decodes a profile event payload.
func ParseProfileUpdated(payload []byte) (*ProfileUpdated, error) {
	var event ProfileUpdated
	if err := decode(payload, &event); err != nil {
		return nil, fmt.Errorf("decode profile event: %w", err)
	}
	return &event, nil
}

func decode(payload []byte, v any) error {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return ErrEmptyPayload
	}
	return json.Unmarshal(payload, v)
}
