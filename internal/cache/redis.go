// Package cache provides the Redis-backed score cache used to avoid
// recomputing scores for unchanged properties.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"

	"github.com/righthome/righthome/internal/scoring"
)

// ScoreCache stores computed score results keyed by property ID and
// weight fingerprint. A fingerprint change invalidates prior entries
// without an explicit flush.
type ScoreCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New connects to Redis and verifies the connection with a ping.
func New(addr, password string, db int, prefix string, ttl time.Duration) (*ScoreCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewWithClient(rdb, prefix, ttl), nil
}

// NewWithClient wraps an existing client. Used by tests with a mock.
func NewWithClient(client *redis.Client, prefix string, ttl time.Duration) *ScoreCache {
	return &ScoreCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ScoreCache) key(propertyID, fingerprint string) string {
	return c.prefix + "score:" + propertyID + ":" + fingerprint
}

// GetScore returns a cached result and whether it was found. Malformed
// cache entries are treated as misses.
func (c *ScoreCache) GetScore(ctx context.Context, propertyID, fingerprint string) (scoring.ScoreResult, bool, error) {
	val, err := c.client.Get(ctx, c.key(propertyID, fingerprint)).Result()
	if err != nil {
		if err == redis.Nil {
			return scoring.ScoreResult{}, false, nil
		}
		return scoring.ScoreResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	var result scoring.ScoreResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return scoring.ScoreResult{}, false, nil
	}
	return result, true, nil
}

// SetScore stores a result under the property and fingerprint key.
func (c *ScoreCache) SetScore(ctx context.Context, propertyID, fingerprint string, result scoring.ScoreResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal score result: %w", err)
	}
	if err := c.client.Set(ctx, c.key(propertyID, fingerprint), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// InvalidateProperty removes all cached results for a property across
// fingerprints. Called after a property record is updated or deleted.
// Iterates with SCAN so large keyspaces never block the server.
func (c *ScoreCache) InvalidateProperty(ctx context.Context, propertyID string) error {
	match := c.prefix + "score:" + propertyID + ":*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the underlying client.
func (c *ScoreCache) Close() error {
	return c.client.Close()
}
