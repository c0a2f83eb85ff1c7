// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package config

import (
	"time"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Vector   VectorConfig   `koanf:"vector"`
	Feed     FeedConfig     `koanf:"feed"`
	NATS     NATSConfig     `koanf:"nats"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`

	// Environment is development or production.
	Environment string `koanf:"environment" validate:"oneof=development production"`

	// RateLimitRequests is the number of requests allowed per client IP in
	// each RateLimitWindow. Zero disables rate limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists browser origins allowed to call the API. Empty
	// disables cross-origin access.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes file:line in every entry.
	Caller bool `koanf:"caller"`
}

// DatabaseConfig holds DuckDB settings. The database holds enriched
// candidates, user profiles and candidate embeddings.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`

	// Threads is the number of DuckDB threads; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`
}

// CacheConfig holds candidate snapshot cache settings.
type CacheConfig struct {
	// Backend is memory (per process) or redis (shared between replicas).
	Backend string `koanf:"backend" validate:"oneof=memory redis"`

	// TTL is how long a fetched candidate snapshot is served.
	// Default: 5m
	TTL time.Duration `koanf:"ttl"`

	// RedisURL is a redis:// URL, required for the redis backend.
	RedisURL string `koanf:"redis_url" validate:"required_if=Backend redis"`

	// RedisKey is the key holding the candidate snapshot.
	RedisKey string `koanf:"redis_key"`
}

// VectorConfig holds preference-vector blending settings.
type VectorConfig struct {
	// Enabled turns on vector blending. When disabled every feed is scored
	// from signals alone.
	Enabled bool `koanf:"enabled"`

	// Backend is the nearest-neighbour index: duckdb or chromem.
	Backend string `koanf:"backend" validate:"oneof=duckdb chromem"`

	// TopK is the number of neighbours requested per user.
	TopK int `koanf:"top_k" validate:"min=1"`

	// Weight is the vector share of the blended score.
	Weight float64 `koanf:"weight" validate:"min=0,max=1"`

	// BadgerPath is the directory of the preference vector store.
	BadgerPath string `koanf:"badger_path"`

	// RefreshInterval is how often the chromem index reloads embeddings
	// from DuckDB. Unused by the duckdb backend.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around the vector index.
type BreakerConfig struct {
	// MaxRequests allowed while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval is the closed-state counter reset period.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open.
	Timeout time.Duration `koanf:"timeout"`

	// FailureThreshold is the consecutive failure count that opens the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold" validate:"min=1"`
}

// FeedConfig holds feed generation settings.
type FeedConfig struct {
	// MinCandidates is the scored candidate count below which no grounded
	// feed is produced.
	// Default: 15
	MinCandidates int `koanf:"min_candidates" validate:"min=1"`

	// Timeout bounds one feed generation, including store and index calls.
	Timeout time.Duration `koanf:"timeout"`
}

// NATSConfig holds the event subscriber settings. Events are the only write
// path into DuckDB and Badger while the service runs, since it holds both
// files open exclusively.
type NATSConfig struct {
	// Enabled subscribes to enrichment and profile events, persists their
	// payloads and invalidates the candidate cache.
	Enabled bool `koanf:"enabled"`

	URL string `koanf:"url" validate:"required_if=Enabled true"`

	// Embedded runs a JetStream server in-process and subscribes to it
	// instead of URL. For single-node deployments.
	Embedded     bool   `koanf:"embedded"`
	EmbeddedPort int    `koanf:"embedded_port" validate:"min=0,max=65535"`
	StoreDir     string `koanf:"store_dir" validate:"required_if=Embedded true"`

	// Topics are the subjects announcing new candidate data.
	Topics []string `koanf:"topics"`

	// ProfileTopics carry taste profiles and preference vectors.
	ProfileTopics []string `koanf:"profile_topics"`

	// StreamName binds to an existing JetStream stream; needed for wildcard topics.
	StreamName string `koanf:"stream_name"`

	DurableName      string `koanf:"durable_name"`
	QueueGroup       string `koanf:"queue_group"`
	SubscribersCount int    `koanf:"subscribers_count" validate:"min=1"`

	// AckWaitTimeout is how long JetStream waits for an ack before redelivery.
	AckWaitTimeout time.Duration `koanf:"ack_wait_timeout"`
}

// RecommendConfig returns engine tunables with the configured overrides
// applied on top of recommend.DefaultConfig.
func (c *Config) RecommendConfig() *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.Vector.TopK = c.Vector.TopK
	rc.Vector.Weight = c.Vector.Weight
	rc.Allocation.MinCandidates = c.Feed.MinCandidates
	rc.Cache.TTL = c.Cache.TTL
	return rc
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
