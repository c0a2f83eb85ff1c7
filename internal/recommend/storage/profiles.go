// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/tastefeed/internal/database"
	"github.com/tomtom215/tastefeed/internal/recommend"
	"github.com/tomtom215/tastefeed/internal/validation"
)

// ErrProfileNotFound is returned when a user has no stored profile.
var ErrProfileNotFound = database.ErrProfileNotFound

// ProfileSource reads stored user profiles. *database.DB implements it.
type ProfileSource interface {
	GetUserProfile(ctx context.Context, userID string) (*recommend.UserProfile, error)
}

// ProfileStore loads and validates user profiles.
type ProfileStore struct {
	source ProfileSource
}

// NewProfileStore creates a ProfileStore.
func NewProfileStore(source ProfileSource) *ProfileStore {
	return &ProfileStore{source: source}
}

// GetProfile returns the user's profile. A stored profile that fails
// validation is an error rather than a silently clamped score input.
func (s *ProfileStore) GetProfile(ctx context.Context, userID string) (*recommend.UserProfile, error) {
	profile, err := s.source.GetUserProfile(ctx, userID)
	if errors.Is(err, database.ErrProfileNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if err := validation.ValidateStruct(profile); err != nil {
		return nil, fmt.Errorf("profile %s is invalid: %w", userID, err)
	}
	return profile, nil
}
