// Package redis provides a Redis-backed, bounded FIFO translation cache.
// Entries live in a single list, oldest at the head, so several editor
// windows can share a warm cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
)

const (
	defaultKeyPrefix = "hoverlate:"
	defaultCapacity  = 100
	pingTimeout      = 5 * time.Second
	entriesKey       = "entries"
)

// Config contains Redis cache settings.
type Config struct {
	URL       string `env:"REDIS_URL"        envDefault:"redis://localhost:6379/0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"hoverlate:"`
}

// Cache implements domain.TranslationCache on a Redis list.
type Cache struct {
	client   *redis.Client
	key      string
	capacity int
}

// NewCache connects to Redis and verifies the connection.
func NewCache(cfg Config, capacity int) (*Cache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", pingErr)
	}

	return NewCacheFromClient(client, capacity, cfg.KeyPrefix), nil
}

// NewCacheFromClient creates a Cache from an existing Redis client.
func NewCacheFromClient(client *redis.Client, capacity int, keyPrefix string) *Cache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	return &Cache{
		client:   client,
		key:      keyPrefix + entriesKey,
		capacity: capacity,
	}
}

// Lookup scans the list newest to oldest for an exact match.
func (c *Cache) Lookup(ctx context.Context, text string) (string, bool) {
	raw, err := c.client.LRange(ctx, c.key, 0, -1).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			observability.FromContext(ctx).Warn("cache lookup failed, treating as miss",
				observability.Error(err))
		}
		return "", false
	}

	for i := len(raw) - 1; i >= 0; i-- {
		var entry domain.CacheEntry
		if decodeErr := msgpack.Unmarshal([]byte(raw[i]), &entry); decodeErr != nil {
			observability.FromContext(ctx).Warn("skipping undecodable cache entry",
				observability.Error(decodeErr))
			continue
		}
		if entry.Source == text {
			return entry.Translated, true
		}
	}

	return "", false
}

// Insert appends an entry and trims the list to capacity in one transaction.
func (c *Cache) Insert(ctx context.Context, text, result string) {
	data, err := msgpack.Marshal(domain.CacheEntry{Source: text, Translated: result})
	if err != nil {
		observability.FromContext(ctx).Warn("failed to encode cache entry", observability.Error(err))
		return
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, c.key, data)
		pipe.LTrim(ctx, c.key, int64(-c.capacity), -1)
		return nil
	})
	if err != nil {
		observability.FromContext(ctx).Warn("failed to store in cache", observability.Error(err))
	}
}

// Reset deletes the list.
func (c *Cache) Reset(ctx context.Context) {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		observability.FromContext(ctx).Warn("failed to reset cache", observability.Error(err))
	}
}

// Len returns the list length, or zero when Redis is unavailable.
func (c *Cache) Len(ctx context.Context) int {
	n, err := c.client.LLen(ctx, c.key).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

var _ domain.TranslationCache = (*Cache)(nil)
