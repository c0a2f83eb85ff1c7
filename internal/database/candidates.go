// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tastefeed/internal/database/query"
	"github.com/tomtom215/tastefeed/internal/recommend"
)

// EnrichmentComplete is the enrichment_status of a matchable candidate.
const EnrichmentComplete = "complete"

// CandidateFilter narrows ListCandidates.
type CandidateFilter struct {
	// Statuses restricts enrichment_status; empty means any status.
	Statuses []string

	// RequireSignals drops candidates with an empty signal list.
	RequireSignals bool
}

// GetEnrichedCandidates returns every candidate whose enrichment is complete
// and that carries at least one signal, ordered by ID.
func (db *DB) GetEnrichedCandidates(ctx context.Context) ([]recommend.CandidateProperty, error) {
	return db.ListCandidates(ctx, CandidateFilter{
		Statuses:       []string{EnrichmentComplete},
		RequireSignals: true,
	})
}

// ListCandidates returns the candidates matching f, ordered by ID.
func (db *DB) ListCandidates(ctx context.Context, f CandidateFilter) ([]recommend.CandidateProperty, error) {
	wb := query.NewWhereBuilder()
	wb.AddIn("enrichment_status", f.Statuses)
	if f.RequireSignals {
		wb.AddClause("trim(signals) NOT IN ('', '[]', 'null')")
	}
	whereClause, args := wb.BuildWithPrefix()

	sqlQuery := fmt.Sprintf(`
		SELECT id, name, signals, anti_signals, facts, signal_count, reliability_score
		FROM candidates
		%s
		ORDER BY id
	`, whereClause)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []recommend.CandidateProperty
	for rows.Next() {
		var (
			c                    recommend.CandidateProperty
			signals, antiSignals string
			facts                sql.NullString
			reliability          sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.Name, &signals, &antiSignals, &facts, &c.SignalCount, &reliability); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		if err := json.Unmarshal([]byte(signals), &c.Signals); err != nil {
			return nil, fmt.Errorf("decode signals of %s: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(antiSignals), &c.AntiSignals); err != nil {
			return nil, fmt.Errorf("decode anti-signals of %s: %w", c.ID, err)
		}
		if facts.Valid && facts.String != "" {
			if err := json.Unmarshal([]byte(facts.String), &c.Facts); err != nil {
				return nil, fmt.Errorf("decode facts of %s: %w", c.ID, err)
			}
		}
		if reliability.Valid {
			r := reliability.Float64
			c.ReliabilityScore = &r
		}

		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

// UpsertCandidate inserts or replaces a candidate with the given enrichment status.
//
//nolint:gocritic // hugeParam: candidate passed by value, it is never modified
func (db *DB) UpsertCandidate(ctx context.Context, c recommend.CandidateProperty, status string) error {
	signals, err := marshalList(c.Signals)
	if err != nil {
		return fmt.Errorf("encode signals: %w", err)
	}
	antiSignals, err := marshalList(c.AntiSignals)
	if err != nil {
		return fmt.Errorf("encode anti-signals: %w", err)
	}

	var facts sql.NullString
	if len(c.Facts) > 0 {
		b, err := json.Marshal(c.Facts)
		if err != nil {
			return fmt.Errorf("encode facts: %w", err)
		}
		facts = sql.NullString{String: string(b), Valid: true}
	}

	var reliability sql.NullFloat64
	if c.ReliabilityScore != nil {
		reliability = sql.NullFloat64{Float64: *c.ReliabilityScore, Valid: true}
	}

	sqlQuery := `
		INSERT OR REPLACE INTO candidates
			(id, name, enrichment_status, signals, anti_signals, facts, signal_count, reliability_score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, current_timestamp)
	`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, sqlQuery,
		c.ID, c.Name, status, signals, antiSignals, facts, c.SignalCount, reliability,
	); err != nil {
		return fmt.Errorf("upsert candidate %s: %w", c.ID, err)
	}
	return nil
}

// marshalList encodes a nil slice as [] rather than null.
func marshalList(signals []recommend.Signal) (string, error) {
	if signals == nil {
		return "[]", nil
	}
	b, err := json.Marshal(signals)
	return string(b), err
}
