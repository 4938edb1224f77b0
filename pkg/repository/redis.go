package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "citypulse:cache:"

// RedisCache implements interfaces.Cache on Redis. Entries carry a
// native TTL in addition to the freshness check the dispatcher performs,
// so stale payloads disappear on their own.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOption func(*RedisCache)

// WithRedisTTL overrides the native expiry of stored entries.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(c *RedisCache) {
		c.ttl = ttl
	}
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string, db int, opts ...RedisOption) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr))
	}

	c := &RedisCache{
		client: client,
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetCache(ctx context.Context, location, source string) (*model.CacheEntry, error) {
	key := redisKeyPrefix + model.CacheKey(location, source)

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, goerr.Wrap(interfaces.ErrCacheMiss, "no cached payload",
				goerr.V("location", location), goerr.V("source", source))
		}
		return nil, goerr.Wrap(err, "failed to get cache entry", goerr.V("key", key))
	}

	var entry model.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode cache entry", goerr.V("key", key))
	}
	return &entry, nil
}

func (c *RedisCache) PutCache(ctx context.Context, entry *model.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return goerr.Wrap(err, "failed to encode cache entry", goerr.V("key", entry.Key()))
	}

	key := redisKeyPrefix + entry.Key()
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to put cache entry", goerr.V("key", key))
	}
	return nil
}

func (c *RedisCache) DeleteCache(ctx context.Context, location, source string) error {
	key := redisKeyPrefix + model.CacheKey(location, source)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return goerr.Wrap(err, "failed to delete cache entry", goerr.V("key", key))
	}
	return nil
}
