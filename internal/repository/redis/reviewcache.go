package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusmess/messreview/internal/domain"
)

const keyPrefix = "reviews:outlet:"

// ReviewCache caches the merged review feed per outlet in Redis. The feed is
// rebuilt from Postgres on a miss and dropped whenever a rating for the
// outlet (or one of its food items) is written or removed.
type ReviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReviewCache creates a new Redis-backed review feed cache.
func NewReviewCache(client *redis.Client, ttl time.Duration) *ReviewCache {
	return &ReviewCache{
		client: client,
		ttl:    ttl,
	}
}

// GetOutletReviews returns the cached feed for an outlet. A miss returns
// (nil, nil) so callers fall through to the database.
func (c *ReviewCache) GetOutletReviews(ctx context.Context, outletID string) ([]domain.OutletReview, error) {
	key := keyPrefix + outletID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get outlet reviews: %w", err)
	}

	var reviews []domain.OutletReview
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("unmarshal outlet reviews: %w", err)
	}

	return reviews, nil
}

// SetOutletReviews stores the feed for an outlet with the configured TTL.
func (c *ReviewCache) SetOutletReviews(ctx context.Context, outletID string, reviews []domain.OutletReview) error {
	key := keyPrefix + outletID

	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("marshal outlet reviews: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set outlet reviews: %w", err)
	}

	return nil
}

// InvalidateOutlet drops the cached feed for an outlet.
func (c *ReviewCache) InvalidateOutlet(ctx context.Context, outletID string) error {
	key := keyPrefix + outletID

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del outlet reviews: %w", err)
	}

	return nil
}
