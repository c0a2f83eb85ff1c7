// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tastefeed/internal/metrics"
	"github.com/tomtom215/tastefeed/internal/recommend"
)

// RedisCache stores the snapshot as JSON under a single key that expires
// after the TTL. Redis read and write failures degrade to a direct fetch.
//
// A generation counter next to the snapshot key plays the role of
// MemoryCache's generation: Invalidate bumps it, and a fetched snapshot is
// only written back if the counter still holds the value read before the
// fetch. A replica whose fetch overlaps an invalidation on any replica
// therefore never stores its possibly stale result.
type RedisCache struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
	logger zerolog.Logger
}

// generationSuffix is appended to the snapshot key to name its counter.
const generationSuffix = ":generation"

// setIfGeneration writes KEYS[1] with a millisecond TTL only while KEYS[2]
// still equals ARGV[1]. A missing counter reads as "0".
var setIfGeneration = redis.NewScript(`
if (redis.call("GET", KEYS[2]) or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// NewRedisClient parses url (redis://...) falling back to a bare address.
func NewRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	return redis.NewClient(opt)
}

// NewRedisCache creates a cache on client under key.
func NewRedisCache(client *redis.Client, key string, ttl time.Duration, logger zerolog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		key:    key,
		genKey: key + generationSuffix,
		ttl:    ttl,
		logger: logger.With().Str("component", "redis_cache").Logger(),
	}
}

// Backend implements Cache.
func (c *RedisCache) Backend() string { return BackendRedis }

// GetOrFetch implements Cache.
func (c *RedisCache) GetOrFetch(ctx context.Context, fetch FetchFunc) ([]recommend.CandidateProperty, error) {
	var (
		generation string
		cacheable  bool
	)
	if c.ttl > 0 {
		var candidates []recommend.CandidateProperty
		var hit bool
		candidates, generation, hit, cacheable = c.get(ctx)
		if hit {
			metrics.RecordCacheLookup(BackendRedis, true)
			return candidates, nil
		}
	}
	metrics.RecordCacheLookup(BackendRedis, false)

	candidates, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		c.set(ctx, generation, candidates)
	}
	return candidates, nil
}

// get reads the snapshot and its generation in one round trip. cacheable is
// false when Redis could not be read, since the generation is then unknown.
func (c *RedisCache) get(ctx context.Context) (candidates []recommend.CandidateProperty, generation string, hit, cacheable bool) {
	vals, err := c.client.MGet(ctx, c.key, c.genKey).Result()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Candidate cache read failed, fetching from store")
		return nil, "", false, false
	}

	generation = "0"
	if g, ok := vals[1].(string); ok {
		generation = g
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, generation, false, true
	}
	if err := json.Unmarshal([]byte(data), &candidates); err != nil {
		c.logger.Warn().Err(err).Msg("Discarding undecodable candidate snapshot")
		return nil, generation, false, true
	}
	return candidates, generation, true, true
}

func (c *RedisCache) set(ctx context.Context, generation string, candidates []recommend.CandidateProperty) {
	if candidates == nil {
		candidates = []recommend.CandidateProperty{}
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to encode candidate snapshot")
		return
	}

	stored, err := setIfGeneration.Run(ctx, c.client, []string{c.key, c.genKey},
		generation, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Candidate cache write failed")
		return
	}
	if stored == 0 {
		c.logger.Debug().Msg("Candidates invalidated during fetch, snapshot not cached")
	}
}

// Invalidate implements Cache. The snapshot is deleted and the generation
// bumped in one transaction.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key)
		pipe.Incr(ctx, c.genKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate candidate snapshot %s: %w", c.key, err)
	}
	return nil
}
