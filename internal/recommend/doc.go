// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

// Package recommend defines the shared vocabulary of the taste-matched feed.
//
// # Architecture
//
// A feed is produced in four stages, each living in its own subpackage:
//
//   - storage: supplies enriched candidate properties, cached with a TTL
//   - matching: scores each candidate against a user's six-domain taste profile
//   - vector: optionally blends learned-vector similarity into the signal score
//   - allocation: partitions the ranked candidates into eight feed slots
//
// This package holds only the types those stages exchange (profiles, signals,
// candidates, scored candidates, the allocated feed) and the engine Config.
// It has no dependencies on the subpackages, which import it.
//
// # Domains
//
// Every taste dimension belongs to one of six domains, iterated in the
// canonical order given by Domains:
//
//	Design, Character, Service, Food, Location, Wellness
//
// Upstream signal dimensions ("Food & Drink", "design_language", ...) are
// mapped onto domains with DomainForDimension.
//
// # Determinism
//
// Scoring and allocation are pure functions of their inputs. All tie-breaks
// use either rank order or canonical domain order; map iteration order never
// influences output.
//
// # Invariants
//
// Within one AllocatedFeed no candidate ID appears in more than one slot.
// AllocatedFeed.CandidateIDs lists the allocated IDs in slot order.
package recommend
