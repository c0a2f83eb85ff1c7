// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

/*
Package config loads tastefeed configuration.

Configuration is layered with koanf, lowest priority first:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths
 3. Environment variables

Environment variables use flat legacy names mapped onto config paths, for
example:

	HTTP_PORT             server.port
	LOG_LEVEL             logging.level
	DUCKDB_PATH           database.path
	CACHE_BACKEND         cache.backend          (memory | redis)
	CANDIDATE_CACHE_TTL   cache.ttl              (default 5m)
	REDIS_URL             cache.redis_url
	VECTOR_ENABLED        vector.enabled
	VECTOR_BACKEND        vector.backend         (duckdb | chromem)
	VECTOR_TOP_K          vector.top_k           (default 100)
	VECTOR_WEIGHT         vector.weight          (default 0.6)
	BADGER_PATH           vector.badger_path
	FEED_MIN_CANDIDATES   feed.min_candidates    (default 15)
	NATS_URL              nats.url
	NATS_TOPICS           nats.topics            (comma separated)
	NATS_EMBEDDED         nats.embedded          (run JetStream in-process)
	NATS_STORE_DIR        nats.store_dir

Unknown environment variables are ignored. The full list lives in
envMappings.

The loaded Config is validated with struct tags (see internal/validation)
and a few cross-field checks before it is returned.
*/
package config
