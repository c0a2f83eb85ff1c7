// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

// ErrProfileNotFound is returned when no profile exists for a user.
var ErrProfileNotFound = errors.New("user profile not found")

// GetUserProfile loads a user's taste profile, micro-signals, contradictions
// and life context.
func (db *DB) GetUserProfile(ctx context.Context, userID string) (*recommend.UserProfile, error) {
	query := `
		SELECT taste, micro_signals, contradictions, life_context
		FROM user_profiles
		WHERE user_id = ?
	`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var taste, micro, contradictions, lifeContext string
	err := db.conn.QueryRowContext(ctx, query, userID).Scan(&taste, &micro, &contradictions, &lifeContext)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", userID, err)
	}

	p := &recommend.UserProfile{UserID: userID}
	for _, f := range []struct {
		name string
		raw  string
		dst  any
	}{
		{"taste", taste, &p.Taste},
		{"micro_signals", micro, &p.MicroSignals},
		{"contradictions", contradictions, &p.Contradictions},
		{"life_context", lifeContext, &p.LifeContext},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("decode %s of %s: %w", f.name, userID, err)
		}
	}
	return p, nil
}

// UpsertUserProfile inserts or replaces a user profile.
func (db *DB) UpsertUserProfile(ctx context.Context, p *recommend.UserProfile) error {
	encoded := make([]string, 0, 4)
	for _, v := range []any{p.Taste, p.MicroSignals, p.Contradictions, p.LifeContext} {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode profile %s: %w", p.UserID, err)
		}
		encoded = append(encoded, string(b))
	}

	query := `
		INSERT OR REPLACE INTO user_profiles
			(user_id, taste, micro_signals, contradictions, life_context, updated_at)
		VALUES (?, ?, ?, ?, ?, current_timestamp)
	`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, query,
		p.UserID, encoded[0], encoded[1], encoded[2], encoded[3],
	); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.UserID, err)
	}
	return nil
}
