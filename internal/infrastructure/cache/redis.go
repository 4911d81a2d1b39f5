package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/ports"
)

const keyPrefix = "credscan:prediction:"

// RedisCache keeps prediction results in Redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.PredictionCache = (*RedisCache)(nil)

// NewRedisCache connects lazily to addr; ttl 0 keeps entries forever.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

// NewRedisCacheWithClient reuses an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached result; a missing key is not an error.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.PredictionResult, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PredictionResult{}, false, nil
	}
	if err != nil {
		return domain.PredictionResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	result, err := decode(raw)
	if err != nil {
		return domain.PredictionResult{}, false, err
	}
	return result, true, nil
}

// Set stores the result under key.
func (c *RedisCache) Set(ctx context.Context, key string, result domain.PredictionResult) error {
	raw, err := encode(result)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func encode(result domain.PredictionResult) ([]byte, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode prediction: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (domain.PredictionResult, error) {
	var result domain.PredictionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("decode prediction: %w", err)
	}
	return result, nil
}
