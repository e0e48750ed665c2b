// Package cache publishes rating snapshots to Redis for fast lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"clubelo/ratings/internal/metrics"
	"clubelo/ratings/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrCacheMiss is returned when a key is not in the cache
var ErrCacheMiss = errors.New("cache miss")

// Config holds Redis connection settings
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache wraps a Redis client
type RedisCache struct {
	client *redis.Client
}

// Cache key generators
const keyPrefix = "clubelo:"

func LatestKey() string  { return keyPrefix + "ratings:latest" }
func AsOfKey() string    { return keyPrefix + "ratings:asof" }
func SummaryKey() string { return keyPrefix + "run:summary" }

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("port", cfg.Port).Msg("Connected to Redis")
	return &RedisCache{client: client}, nil
}

// Close closes the Redis client
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Health checks if Redis is reachable
func (c *RedisCache) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// PublishLatest replaces the latest ratings hash (club id -> elo) and the
// as-of date in one transaction
func (c *RedisCache) PublishLatest(ctx context.Context, rows []models.LatestRating, ttl time.Duration) error {
	start := time.Now()
	defer func() {
		metrics.RecordCacheOperation("publish_latest", time.Since(start).Seconds())
	}()

	values := make(map[string]interface{}, len(rows))
	asOf := ""
	for _, r := range rows {
		values[strconv.Itoa(r.ClubID)] = strconv.FormatFloat(r.Elo, 'f', 2, 64)
		asOf = r.Date
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, LatestKey())
		if len(values) > 0 {
			pipe.HSet(ctx, LatestKey(), values)
			pipe.Expire(ctx, LatestKey(), ttl)
		}
		pipe.Set(ctx, AsOfKey(), asOf, ttl)
		return nil
	})
	if err != nil {
		metrics.RecordError("cache", "publish_latest")
		return fmt.Errorf("failed to publish latest ratings: %w", err)
	}

	log.Debug().Int("clubs", len(rows)).Msg("Latest ratings published to cache")
	return nil
}

// GetLatest returns the cached latest rating of one club
func (c *RedisCache) GetLatest(ctx context.Context, clubID int) (*models.LatestRating, error) {
	start := time.Now()
	defer func() {
		metrics.RecordCacheOperation("get_latest", time.Since(start).Seconds())
	}()

	raw, err := c.client.HGet(ctx, LatestKey(), strconv.Itoa(clubID)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss()
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest rating: %w", err)
	}

	elo, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cached rating %q: %w", raw, err)
	}

	asOf, err := c.client.Get(ctx, AsOfKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get as-of date: %w", err)
	}

	metrics.RecordCacheHit()
	return &models.LatestRating{ClubID: clubID, Date: asOf, Elo: elo}, nil
}

// PublishSummary stores a JSON run summary
func (c *RedisCache) PublishSummary(ctx context.Context, summary interface{}, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := c.client.Set(ctx, SummaryKey(), data, ttl).Err(); err != nil {
		metrics.RecordError("cache", "publish_summary")
		return fmt.Errorf("failed to publish summary: %w", err)
	}
	return nil
}

// GetSummary decodes the last run summary into dest
func (c *RedisCache) GetSummary(ctx context.Context, dest interface{}) error {
	data, err := c.client.Get(ctx, SummaryKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss()
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get summary: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	metrics.RecordCacheHit()
	return nil
}
