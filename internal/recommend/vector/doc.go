// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

// Package vector blends learned preference-vector similarity into signal scores.
//
// A user's preference vector is read from a PreferenceStore and sent to an
// Index for the nearest candidates by cosine similarity. Matched candidates
// receive
//
//	blendedScore = round(weight*vectorScore + (1-weight)*signalScore)
//
// which replaces their overall score; unmatched candidates keep their signal
// score. With no stored vector the scores are left untouched and the result
// reports VectorEnabled=false.
//
// Index implementations:
//   - DuckDBIndex: list_cosine_similarity over the candidate_embeddings table
//   - ChromemIndex: in-process chromem-go collection loaded from the same table
//   - BreakerIndex: wraps any Index with a gobreaker circuit breaker
//
// BadgerPreferenceStore keeps one vector per user in BadgerDB.
package vector
