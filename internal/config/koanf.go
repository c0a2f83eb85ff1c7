// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tastefeed/config.yaml",
	"/etc/tastefeed/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			Environment:       "development",
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path:      "/data/tastefeed.duckdb",
			MaxMemory: "1GB",
		},
		Cache: CacheConfig{
			Backend:  "memory",
			TTL:      5 * time.Minute,
			RedisKey: "tastefeed:candidates",
		},
		Vector: VectorConfig{
			Enabled:    true,
			Backend:    "duckdb",
			TopK:       100,
			Weight:     0.6,
			BadgerPath: "/data/preferences",

			RefreshInterval: 10 * time.Minute,

			Breaker: BreakerConfig{
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Feed: FeedConfig{
			MinCandidates: 15,
			Timeout:       10 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:          false,
			URL:              "nats://127.0.0.1:4222",
			EmbeddedPort:     4222,
			StoreDir:         "/data/nats",
			Topics:           []string{"enrichment.completed"},
			ProfileTopics:    []string{"profile.updated"},
			DurableName:      "tastefeed-invalidator",
			QueueGroup:       "tastefeed",
			SubscribersCount: 1,
			AckWaitTimeout:   30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the optional config file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are paths whose env values are comma separated lists.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"nats.topics",
	"nats.profile_topics",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}

		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"environment":         "server.environment",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"cors_origins":        "server.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"cache_backend":       "cache.backend",
	"candidate_cache_ttl": "cache.ttl",
	"redis_url":           "cache.redis_url",
	"redis_key":           "cache.redis_key",

	"vector_enabled":                   "vector.enabled",
	"vector_backend":                   "vector.backend",
	"vector_top_k":                     "vector.top_k",
	"vector_weight":                    "vector.weight",
	"badger_path":                      "vector.badger_path",
	"vector_refresh_interval":          "vector.refresh_interval",
	"vector_breaker_max_requests":      "vector.breaker.max_requests",
	"vector_breaker_interval":          "vector.breaker.interval",
	"vector_breaker_timeout":           "vector.breaker.timeout",
	"vector_breaker_failure_threshold": "vector.breaker.failure_threshold",

	"feed_min_candidates": "feed.min_candidates",
	"feed_timeout":        "feed.timeout",

	"nats_enabled":           "nats.enabled",
	"nats_url":               "nats.url",
	"nats_topics":            "nats.topics",
	"nats_profile_topics":    "nats.profile_topics",
	"nats_embedded":          "nats.embedded",
	"nats_embedded_port":     "nats.embedded_port",
	"nats_store_dir":         "nats.store_dir",
	"nats_stream_name":       "nats.stream_name",
	"nats_durable_name":      "nats.durable_name",
	"nats_queue_group":       "nats.queue_group",
	"nats_subscribers_count": "nats.subscribers_count",
	"nats_ack_wait_timeout":  "nats.ack_wait_timeout",
}

// envTransformFunc maps an environment variable name to a config path.
// Unmapped names return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
