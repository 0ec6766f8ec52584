package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window request counter backed by Redis.
type RedisRateLimiter struct {
	client redis.UniversalClient
}

// NewRedisRateLimiter creates a Redis-backed rate limiter.
func NewRedisRateLimiter(client redis.UniversalClient) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

// Allow increments the counter for key in the current window and reports
// whether the request is within the limit.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	bucket := r.bucketKey(key, window)

	count, err := r.client.Incr(ctx, bucket).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, bucket, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// GetRemaining returns how many requests remain in the current window.
func (r *RedisRateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	bucket := r.bucketKey(key, window)

	count, err := r.client.Get(ctx, bucket).Int64()
	if err != nil {
		if err == redis.Nil {
			return limit, nil
		}
		return 0, err
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (r *RedisRateLimiter) bucketKey(key string, window time.Duration) string {
	bucket := time.Now().UnixNano() / int64(window)
	return fmt.Sprintf("ratelimit:%s:%d", key, bucket)
}
