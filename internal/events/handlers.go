// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/tastefeed/internal/metrics"
	"github.com/tomtom215/tastefeed/internal/recommend"
	"github.com/tomtom215/tastefeed/internal/validation"
)

// Kinds of records persisted from events, used as metric labels.
const (
	WriteCandidate  = "candidate"
	WriteEmbedding  = "embedding"
	WriteProfile    = "profile"
	WritePreference = "preference_vector"
)

// Invalidator drops the cached candidate snapshot.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// CandidateWriter persists enriched candidates and their embeddings.
// Implemented by *database.DB.
type CandidateWriter interface {
	UpsertCandidate(ctx context.Context, c recommend.CandidateProperty, status string) error
	UpsertCandidateEmbedding(ctx context.Context, candidateID string, embedding []float32) error
}

// EmbeddingIndexer adds an embedding to an in-process index so it is
// searchable before the next full reload. Implemented by *vector.ChromemIndex.
type EmbeddingIndexer interface {
	Add(ctx context.Context, candidateID string, embedding []float32) error
}

// ProfileWriter persists taste profiles. Implemented by *database.DB.
type ProfileWriter interface {
	UpsertUserProfile(ctx context.Context, p *recommend.UserProfile) error
}

// PreferenceWriter persists learned preference vectors.
// Implemented by *vector.BadgerPreferenceStore.
type PreferenceWriter interface {
	PutUserVector(ctx context.Context, userID string, vec []float32) error
}

// Writers are the stores events are applied to. The service process owns
// DuckDB and Badger exclusively, so events are the only way upstream
// pipelines get data into them. Any field may be nil; the matching part of
// an event is then skipped.
type Writers struct {
	Candidates  CandidateWriter
	Index       EmbeddingIndexer
	Profiles    ProfileWriter
	Preferences PreferenceWriter
}

// EnrichmentHandler returns a router handler that persists the candidate and
// embedding an event carries, then invalidates the candidate snapshot.
//
// A payload that cannot be decoded, or whose candidate ID contradicts
// property_id, is counted as failed but still invalidates. Store and
// invalidation errors are returned so the router retries and eventually nacks
// the message; every write is an upsert, so redelivery is safe.
func EnrichmentHandler(inv Invalidator, w Writers, logger watermill.LoggerAdapter) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		metrics.NATSMessagesConsumed.Inc()
		ctx := msg.Context()

		fields := watermill.LogFields{"message_uuid": msg.UUID}
		event, err := ParseEnrichmentCompleted(msg.Payload)
		if err != nil {
			metrics.NATSMessagesFailed.Inc()
			logger.Error("Unreadable enrichment event, invalidating anyway", err, fields)
		} else {
			fields["property_id"] = event.PropertyID
			fields["status"] = event.Status
			if err := applyEnrichment(ctx, event, w, logger, fields); err != nil {
				return err
			}
		}

		if err := inv.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate candidates: %w", err)
		}
		metrics.RecordInvalidation(InvalidationSource)
		logger.Debug("Candidate snapshot invalidated", fields)
		return nil
	}
}

func applyEnrichment(ctx context.Context, event *EnrichmentCompleted, w Writers, logger watermill.LoggerAdapter, fields watermill.LogFields) error {
	if w.Candidates == nil {
		return nil
	}

	id := event.PropertyID
	if c := event.Candidate; c != nil {
		switch {
		case id == "" && c.ID == "":
			metrics.NATSMessagesFailed.Inc()
			logger.Error("Enrichment event has no property ID, skipping write", nil, fields)
			return nil
		case id != "" && c.ID != "" && c.ID != id:
			metrics.NATSMessagesFailed.Inc()
			logger.Error("Candidate ID does not match property_id, skipping write", nil,
				fields.Add(watermill.LogFields{"candidate_id": c.ID}))
			return nil
		}

		candidate := *c
		if candidate.ID == "" {
			candidate.ID = id
		}
		id = candidate.ID
		if candidate.SignalCount == 0 {
			candidate.SignalCount = len(candidate.Signals)
		}
		status := event.Status
		if status == "" {
			status = StatusComplete
		}
		if err := w.Candidates.UpsertCandidate(ctx, candidate, status); err != nil {
			return fmt.Errorf("store candidate: %w", err)
		}
		metrics.RecordEventWrite(WriteCandidate)
	}

	if len(event.Embedding) == 0 || id == "" {
		return nil
	}
	if err := w.Candidates.UpsertCandidateEmbedding(ctx, id, event.Embedding); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}
	metrics.RecordEventWrite(WriteEmbedding)

	// The periodic reload picks the embedding up if the live index rejects it.
	if w.Index != nil {
		if err := w.Index.Add(ctx, id, event.Embedding); err != nil {
			logger.Error("Embedding not added to live index", err, fields)
		}
	}
	return nil
}

// ProfileHandler returns a router handler that persists taste profiles and
// preference vectors.
//
// Events that cannot be decoded, lack a user ID or carry an invalid profile
// are counted as failed and acknowledged: redelivery cannot fix them. Store
// errors are returned for retry.
func ProfileHandler(w Writers, logger watermill.LoggerAdapter) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		metrics.NATSMessagesConsumed.Inc()
		ctx := msg.Context()

		fields := watermill.LogFields{"message_uuid": msg.UUID}
		event, err := ParseProfileUpdated(msg.Payload)
		if err != nil {
			metrics.NATSMessagesFailed.Inc()
			logger.Error("Unreadable profile event, dropping", err, fields)
			return nil
		}
		if event.UserID == "" {
			metrics.NATSMessagesFailed.Inc()
			logger.Error("Profile event has no user ID, dropping", nil, fields)
			return nil
		}
		fields["user_id"] = event.UserID

		if p := event.Profile; p != nil && w.Profiles != nil {
			if err := storeProfile(ctx, event.UserID, p, w.Profiles); err != nil {
				var invalid *validation.Error
				if !errors.As(err, &invalid) {
					return err
				}
				metrics.NATSMessagesFailed.Inc()
				logger.Error("Invalid taste profile, skipping", err, fields)
			}
		}

		if len(event.PreferenceVector) > 0 && w.Preferences != nil {
			if err := w.Preferences.PutUserVector(ctx, event.UserID, event.PreferenceVector); err != nil {
				return fmt.Errorf("store preference vector: %w", err)
			}
			metrics.RecordEventWrite(WritePreference)
		}

		logger.Debug("Profile event applied", fields)
		return nil
	}
}

// storeProfile returns a *validation.Error for profiles that fail validation.
func storeProfile(ctx context.Context, userID string, p *recommend.UserProfile, w ProfileWriter) error {
	profile := *p
	if profile.UserID == "" {
		profile.UserID = userID
	}
	if profile.UserID != userID {
		return &validation.Error{Fields: []validation.FieldError{{
			Field:   "user_id",
			Tag:     "eqfield",
			Message: fmt.Sprintf("does not match event user %s", userID),
		}}}
	}
	if err := validation.ValidateStruct(&profile); err != nil {
		return err
	}
	if err := w.UpsertUserProfile(ctx, &profile); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	metrics.RecordEventWrite(WriteProfile)
	return nil
}
