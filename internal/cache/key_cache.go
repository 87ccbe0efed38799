// Package cache holds the optional Redis cache for static model API keys.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyCache caches API keys by (userID, model name).
type KeyCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, userID, name string) (key string, ok bool, err error)
	Set(ctx context.Context, userID, name, key string) error
	Invalidate(ctx context.Context, userID, name string) error
	// Ping is nil-safe for health reporting; the no-op cache returns
	// ErrDisabled.
	Ping(ctx context.Context) error
	Close() error
}

// ErrDisabled is returned by the no-op cache's Ping.
var ErrDisabled = errors.New("cache disabled")

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New returns a Redis-backed cache, or a no-op one when opts.Addr is empty.
func New(opts Options, logger *slog.Logger) KeyCache {
	if opts.Addr == "" {
		return Noop{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	logger.Info("redis key cache enabled", "addr", opts.Addr, "ttl", opts.TTL)
	return &RedisKeyCache{client: client, ttl: opts.TTL, logger: logger}
}

type RedisKeyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func cacheKey(userID, name string) string {
	return fmt.Sprintf("static-model:%s:%s", userID, name)
}

func (c *RedisKeyCache) Get(ctx context.Context, userID, name string) (string, bool, error) {
	v, err := c.client.Get(ctx, cacheKey(userID, name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (c *RedisKeyCache) Set(ctx context.Context, userID, name, key string) error {
	if err := c.client.Set(ctx, cacheKey(userID, name), key, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisKeyCache) Invalidate(ctx context.Context, userID, name string) error {
	if err := c.client.Del(ctx, cacheKey(userID, name)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisKeyCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisKeyCache) Close() error {
	return c.client.Close()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, string) (string, bool, error) { return "", false, nil }
func (Noop) Set(context.Context, string, string, string) error         { return nil }
func (Noop) Invalidate(context.Context, string, string) error          { return nil }
func (Noop) Ping(context.Context) error                                { return ErrDisabled }
func (Noop) Close() error                                              { return nil }
