// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

/*
Package events consumes enrichment and profile events from NATS JetStream,
writes their payloads to the stores and invalidates the candidate snapshot
when new candidate data lands.

The service process holds DuckDB and Badger open exclusively, so upstream
pipelines publish instead of writing the files:

  - enrichment.completed carries a property ID and, optionally, the enriched
    candidate and its embedding. Both are upserted, then the whole snapshot
    is invalidated. A malformed payload is counted and logged but still
    invalidates.
  - profile.updated carries a user's taste profile and/or preference vector.
    Invalid profiles are counted and acked; nothing is invalidated.

# Architecture

	┌────────────────┐   ┌──────────────┐   ┌──────────────────┐
	│ Enrichment and │──▶│ JetStream    │──▶│ Watermill router │
	│ profile jobs   │   │ (durable)    │   │ Recoverer, Retry │
	└────────────────┘   └──────────────┘   └────────┬─────────┘
	                                                 │
	                           ┌─────────────────────┼──────────────────┐
	                           ▼                     ▼                  ▼
	                  ┌────────────────┐   ┌──────────────────┐  ┌────────────────┐
	                  │ DuckDB upserts │   │ Badger vectors   │  │ CandidateStore │
	                  │ (+ chromem)    │   │                  │  │ .Invalidate    │
	                  └────────────────┘   └──────────────────┘  └────────────────┘

Store and invalidation failures (for example a Redis outage) are returned to
the router so the retry middleware re-attempts them; after the retries the
message is nacked and JetStream redelivers it up to MaxDeliver times. Every
write is an upsert, so redelivery is safe.

# Usage

	sub, err := events.NewSubscriber(events.SubscriberConfigFrom(&cfg.NATS), wmLogger)
	svc, err := events.NewService(events.ServiceConfig{Topics: cfg.NATS.Topics},
	    events.StaticSubscriber(sub), candidateStore, wmLogger,
	    events.WithWriters(events.Writers{Candidates: db, Profiles: db, Preferences: prefs}))
	supervisor.Add(svc)

Service implements suture.Service: Serve blocks until its context is canceled.
*/
package events
