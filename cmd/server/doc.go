// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

/*
Command server runs the taste-matched feed service.

# Startup order

 1. Configuration (koanf: defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. DuckDB: candidates, user profiles, candidate embeddings
 4. Candidate snapshot cache (memory or redis) and profile store
 5. Vector blending: preference vectors in Badger, neighbour index in
    DuckDB or chromem, wrapped in a circuit breaker
 6. Feed service and HTTP API
 7. Supervisor tree: index refresh, NATS event consumer, HTTP server

# Writes

The process holds DuckDB and Badger open exclusively. Enrichment and profile
pipelines publish to NATS; the event consumer upserts candidates, embeddings,
profiles and preference vectors and then invalidates the candidate snapshot.
With NATS disabled the stores only change between restarts.

# Configuration

Common environment variables:

	HTTP_PORT=8080
	DUCKDB_PATH=/data/tastefeed.duckdb
	CACHE_BACKEND=memory            # or redis, with REDIS_URL
	CANDIDATE_CACHE_TTL=5m
	VECTOR_ENABLED=true
	VECTOR_BACKEND=duckdb           # or chromem
	BADGER_PATH=/data/preferences
	NATS_ENABLED=false
	NATS_URL=nats://127.0.0.1:4222
	NATS_TOPICS=enrichment.completed
	NATS_PROFILE_TOPICS=profile.updated
	NATS_EMBEDDED=false             # true starts JetStream in-process on NATS_EMBEDDED_PORT

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests, the NATS consumer closes its subscription, then the
embedded NATS server (if any) and the stores are closed.
*/
package main
