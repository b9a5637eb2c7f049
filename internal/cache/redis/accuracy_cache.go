package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// AccuracyCache implements domain.AccuracyCache. It keeps the most recent
// evaluation result so stats endpoints can report accuracy without running
// another evaluation pass (which would consume more historical data).
//
// Key schema:
//
//	model:accuracy - hash with fields "accuracy" and "sample"
type AccuracyCache struct {
	rdb *redis.Client
}

// NewAccuracyCache creates an AccuracyCache backed by the given Client.
func NewAccuracyCache(c *Client) *AccuracyCache {
	return &AccuracyCache{rdb: c.rdb}
}

const accuracyKey = "model:accuracy"

// Set stores the latest measured accuracy and its sample size. The value
// has no TTL; it is overwritten by the next evaluation.
func (ac *AccuracyCache) Set(ctx context.Context, accuracy float64, sampleSize int) error {
	if err := ac.rdb.HSet(ctx, accuracyKey,
		"accuracy", accuracy,
		"sample", sampleSize,
	).Err(); err != nil {
		return fmt.Errorf("redis: set model accuracy: %w", err)
	}
	return nil
}

// Get returns the last stored accuracy, or domain.ErrNotFound when no
// evaluation has been recorded yet.
func (ac *AccuracyCache) Get(ctx context.Context) (float64, int, error) {
	vals, err := ac.rdb.HGetAll(ctx, accuracyKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, 0, domain.ErrNotFound
		}
		return 0, 0, fmt.Errorf("redis: get model accuracy: %w", err)
	}
	if len(vals) == 0 {
		return 0, 0, domain.ErrNotFound
	}

	var accuracy float64
	var sample int
	if _, err := fmt.Sscanf(vals["accuracy"], "%g", &accuracy); err != nil {
		return 0, 0, fmt.Errorf("redis: parse accuracy %q: %w", vals["accuracy"], err)
	}
	if _, err := fmt.Sscanf(vals["sample"], "%d", &sample); err != nil {
		return 0, 0, fmt.Errorf("redis: parse sample %q: %w", vals["sample"], err)
	}
	return accuracy, sample, nil
}
