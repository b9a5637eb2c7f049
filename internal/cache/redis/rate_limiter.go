package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// RateLimiter implements domain.RateLimiter with a fixed window counter per
// key. The counter key expires with the window, so idle clients cost nothing.
type RateLimiter struct {
	rdb *redis.Client
}

// NewRateLimiter creates a RateLimiter backed by the given Client.
func NewRateLimiter(c *Client) *RateLimiter {
	return &RateLimiter{rdb: c.rdb}
}

func rateLimitKey(key string) string {
	return "ratelimit:" + key
}

// Allow counts the request against the key's current window and reports
// whether it stays within the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := rateLimitKey(key)

	pipe := rl.rdb.TxPipeline()
	count := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: rate limit %s: %w", key, err)
	}

	return count.Val() <= int64(limit), nil
}

var _ domain.RateLimiter = (*RateLimiter)(nil)
