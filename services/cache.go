package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Cache tags, one per primary entity collection. A successful mutation on
// an entity type invalidates its tag; the next read repopulates it.
const (
	CacheTagProjects     = "projects"
	CacheTagAchievements = "achievements"
	CacheTagProfiles     = "profiles"
	CacheTagSiteStats    = "site-stats"
)

// TagCache is a pull-based read cache over Redis, keyed by entity-type
// tag. A nil *TagCache is valid and disables caching entirely, so callers
// never have to branch on whether Redis is configured. Redis errors are
// logged and treated as misses; the database remains the source of truth.
type TagCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewTagCache connects to Redis at url and verifies the connection.
func NewTagCache(url, password string, ttl time.Duration) (*TagCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewTagCacheWithClient(client, ttl), nil
}

// NewTagCacheWithClient wraps an existing client (used for testing).
func NewTagCacheWithClient(client *redis.Client, ttl time.Duration) *TagCache {
	logger := log.With().Str("serviceName", "tagCache").Logger()
	return &TagCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached payload for a tag, if present.
func (c *TagCache) Get(ctx context.Context, tag string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, cacheKey(tag)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("cache read failed")
		return nil, false
	}
	return payload, true
}

// Set stores a payload under a tag with the configured TTL.
func (c *TagCache) Set(ctx context.Context, tag string, payload []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(tag), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("cache write failed")
	}
}

// Invalidate drops the cached payload for a tag. Called after every
// successful mutation on that entity type.
func (c *TagCache) Invalidate(ctx context.Context, tag string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(tag)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("cache invalidation failed")
	}
}

func cacheKey(tag string) string {
	return "cache:" + tag
}
