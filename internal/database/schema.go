// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package database

import (
	"context"
	"fmt"
)

// Structured columns (signals, facts, profiles) are stored as JSON text so
// the schema needs no extensions. Tables carry no secondary indexes because
// DuckDB rejects INSERT OR REPLACE on indexed columns.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		id                VARCHAR PRIMARY KEY,
		name              VARCHAR NOT NULL,
		enrichment_status VARCHAR NOT NULL DEFAULT 'pending',
		signals           VARCHAR NOT NULL DEFAULT '[]',
		anti_signals      VARCHAR NOT NULL DEFAULT '[]',
		facts             VARCHAR,
		signal_count      INTEGER NOT NULL DEFAULT 0,
		reliability_score DOUBLE,
		updated_at        TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id        VARCHAR PRIMARY KEY,
		taste          VARCHAR NOT NULL,
		micro_signals  VARCHAR NOT NULL DEFAULT '{}',
		contradictions VARCHAR NOT NULL DEFAULT '[]',
		life_context   VARCHAR NOT NULL DEFAULT '{}',
		updated_at     TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_embeddings (
		candidate_id VARCHAR PRIMARY KEY,
		embedding    FLOAT[] NOT NULL,
		updated_at   TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, q := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
