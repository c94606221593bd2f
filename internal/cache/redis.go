package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(ctx context.Context, redisURL string) (*RedisClient, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFrom wraps an existing go-redis client.
func NewRedisClientFrom(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func artifactKey(location string) string {
	return fmt.Sprintf("artifact:%s", location)
}

// SetArtifact stores raw artifact bytes under their storage location.
func (r *RedisClient) SetArtifact(ctx context.Context, location string, data []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, artifactKey(location), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store artifact in Redis: %w", err)
	}
	return nil
}

// GetArtifact returns the cached bytes and whether the key existed.
func (r *RedisClient) GetArtifact(ctx context.Context, location string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, artifactKey(location)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get artifact from Redis: %w", err)
	}
	return data, true, nil
}

// TryLock takes a best-effort lock that expires after ttl. It returns false
// when another holder owns the key.
func (r *RedisClient) TryLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, "lock:"+name, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	return ok, nil
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Unlock releases the lock only if owner still holds it.
func (r *RedisClient) Unlock(ctx context.Context, name, owner string) error {
	return unlockScript.Run(ctx, r.client, []string{"lock:" + name}, owner).Err()
}

// GetStatus reports connection pool statistics.
func (r *RedisClient) GetStatus(ctx context.Context) (map[string]interface{}, error) {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	stats := r.client.PoolStats()

	return map[string]interface{}{
		"connected":    true,
		"hits":         stats.Hits,
		"misses":       stats.Misses,
		"active_conns": stats.TotalConns,
	}, nil
}
