package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"phishguard/internal/config"
	"phishguard/pkg/logger"
)

// Cache key constants
const (
	KeyVerdictPrefix   = "cache:verdict:"
	KeyRateLimitPrefix = "rate_limit:"
	KeyStatsScans      = "stats:scans"
	KeyStatsPhishing   = "stats:phishing"
)

// ErrCacheMiss is returned when a key is not present
var ErrCacheMiss = redis.Nil

// RedisCache wraps the Redis client with typed operations
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

// NewRedis creates a new Redis client
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	log = log.WithComponent("redis")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info().Msg("connected to Redis successfully")

	return &RedisCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		logger:    log,
	}, nil
}

// Client returns the underlying Redis client
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	c.logger.Info().Msg("closing Redis connection")
	return c.client.Close()
}

// Ping checks the connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// key prepends the namespace prefix to a key
func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, c.key(key)).Result()
}

// GetJSON retrieves and unmarshals a JSON value from cache
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Set stores a value in cache with optional TTL
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

// SetJSON marshals and stores a value in cache
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.Set(ctx, key, string(data), ttl)
}

// Incr increments an integer value
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, c.key(key)).Result()
}

// HIncrBy increments a hash field
func (c *RedisCache) HIncrBy(ctx context.Context, key, field string, value int64) (int64, error) {
	return c.client.HIncrBy(ctx, c.key(key), field, value).Result()
}

// HGetAll returns all fields of a hash
func (c *RedisCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return c.client.HGetAll(ctx, c.key(key)).Result()
}

// CacheVerdict caches a scan verdict by content hash
func (c *RedisCache) CacheVerdict(ctx context.Context, hash string, verdict any, ttl time.Duration) error {
	return c.SetJSON(ctx, KeyVerdictPrefix+hash, verdict, ttl)
}

// GetCachedVerdict retrieves a cached verdict; returns ErrCacheMiss when absent
func (c *RedisCache) GetCachedVerdict(ctx context.Context, hash string, dest any) error {
	return c.GetJSON(ctx, KeyVerdictPrefix+hash, dest)
}

// RecordScan bumps the running scan counters
func (c *RedisCache) RecordScan(ctx context.Context, scanType string, isPhishing bool) {
	if _, err := c.HIncrBy(ctx, KeyStatsScans, scanType, 1); err != nil {
		c.logger.Warn().Err(err).Msg("failed to update scan counter")
		return
	}
	if isPhishing {
		if _, err := c.Incr(ctx, KeyStatsPhishing); err != nil {
			c.logger.Warn().Err(err).Msg("failed to update phishing counter")
		}
	}
}

// CheckRateLimit checks and increments the rate limit counter.
// Returns (allowed, remaining, resetTime, error).
func (c *RedisCache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	now := time.Now()
	windowKey := fmt.Sprintf("%s%s:%d", KeyRateLimitPrefix, key, now.Unix()/int64(window.Seconds()))

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, c.key(windowKey))
	pipe.Expire(ctx, c.key(windowKey), window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := incr.Val()
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, now.Add(window), nil
}
