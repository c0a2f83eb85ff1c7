// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package database

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// Neighbor is a candidate ranked by cosine similarity to a query vector.
type Neighbor struct {
	CandidateID string
	Similarity  float64
}

// CandidateEmbedding is a stored candidate embedding.
type CandidateEmbedding struct {
	CandidateID string
	Embedding   []float32
}

// UpsertCandidateEmbedding inserts or replaces a candidate's embedding.
func (db *DB) UpsertCandidateEmbedding(ctx context.Context, candidateID string, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("embedding of %s is empty", candidateID)
	}
	literal, err := listLiteral(embedding)
	if err != nil {
		return err
	}

	query := `
		INSERT OR REPLACE INTO candidate_embeddings (candidate_id, embedding, updated_at)
		VALUES (?, CAST(? AS FLOAT[]), current_timestamp)
	`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, query, candidateID, literal); err != nil {
		return fmt.Errorf("upsert embedding %s: %w", candidateID, err)
	}
	return nil
}

// NearestCandidates returns up to k candidates by descending cosine
// similarity to query. Embeddings of a different length and zero vectors are
// skipped. Equal similarities are ordered by candidate ID.
func (db *DB) NearestCandidates(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	if k <= 0 || isZero(query) {
		return nil, nil
	}
	literal, err := listLiteral(query)
	if err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT candidate_id, similarity
		FROM (
			SELECT
				candidate_id,
				CAST(list_cosine_similarity(embedding, CAST(? AS FLOAT[])) AS DOUBLE) AS similarity
			FROM candidate_embeddings
			WHERE len(embedding) = ?
		)
		WHERE similarity IS NOT NULL AND NOT isnan(similarity)
		ORDER BY similarity DESC, candidate_id
		LIMIT ?
	`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, sqlQuery, literal, len(query), k)
	if err != nil {
		return nil, fmt.Errorf("query nearest candidates: %w", err)
	}
	defer rows.Close()

	neighbors := make([]Neighbor, 0, k)
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.CandidateID, &n.Similarity); err != nil {
			return nil, fmt.Errorf("scan neighbor: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate neighbors: %w", err)
	}
	return neighbors, nil
}

// CandidateEmbeddings returns every stored embedding, ordered by candidate ID.
func (db *DB) CandidateEmbeddings(ctx context.Context) ([]CandidateEmbedding, error) {
	query := `
		SELECT candidate_id, CAST(embedding AS VARCHAR)
		FROM candidate_embeddings
		ORDER BY candidate_id
	`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	var out []CandidateEmbedding
	for rows.Next() {
		var (
			e   CandidateEmbedding
			raw string
		)
		if err := rows.Scan(&e.CandidateID, &raw); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &e.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding of %s: %w", e.CandidateID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}
	return out, nil
}

// listLiteral renders a vector as a DuckDB list literal, e.g. [0.1,0.2].
func listLiteral(v []float32) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode vector: %w", err)
	}
	return string(b), nil
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
