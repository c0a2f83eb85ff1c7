// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package config

import (
	"fmt"

	"github.com/tomtom215/tastefeed/internal/validation"
)

// Validate checks struct tag rules, then the cross-field rules tags can't express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("CANDIDATE_CACHE_TTL must be non-negative, got %v", c.Cache.TTL)
	}
	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	if c.Vector.Enabled && c.Vector.BadgerPath == "" {
		return fmt.Errorf("BADGER_PATH is required when VECTOR_ENABLED is true")
	}
	if c.Vector.Breaker.Timeout <= 0 {
		return fmt.Errorf("VECTOR_BREAKER_TIMEOUT must be positive, got %v", c.Vector.Breaker.Timeout)
	}
	if c.NATS.Enabled && len(c.NATS.Topics) == 0 {
		return fmt.Errorf("NATS_TOPICS must name at least one subject when NATS_ENABLED is true")
	}
	if c.Feed.Timeout < 0 {
		return fmt.Errorf("FEED_TIMEOUT must be non-negative, got %v", c.Feed.Timeout)
	}

	return c.RecommendConfig().Validate()
}
