package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aguevara193/reviews-api/internal/cache"
	"github.com/aguevara193/reviews-api/internal/domain"
)

const sweepBatchSize = 200

// ReviewCache implements cache.ReviewCache on Redis. Review lists are
// stored as JSON blobs with a per-entry TTL.
type ReviewCache struct {
	client *redis.Client
	log    *slog.Logger
}

var _ cache.ReviewCache = (*ReviewCache)(nil)

// NewReviewCache creates a Redis-backed review cache.
func NewReviewCache(client *redis.Client, log *slog.Logger) *ReviewCache {
	return &ReviewCache{
		client: client,
		log:    log,
	}
}

// Get returns the cached review list, or nil on a miss. Entries that no
// longer deserialize are deleted and reported as misses so one corrupt
// payload cannot wedge a key until its TTL expires.
func (c *ReviewCache) Get(ctx context.Context, key string) ([]*domain.Review, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var reviews []*domain.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		c.log.WarnContext(ctx, "dropping corrupt cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		_ = c.client.Del(ctx, key).Err()
		return nil, nil
	}

	for _, r := range reviews {
		r.Normalize()
	}
	return reviews, nil
}

// Set stores the review list under the key with the given TTL.
func (c *ReviewCache) Set(ctx context.Context, key string, reviews []*domain.Review, ttl time.Duration) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("marshal reviews: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// InvalidateProduct sweeps every listing key that includes the product.
// SCAN walks the keyspace incrementally instead of blocking the server
// the way KEYS would.
func (c *ReviewCache) InvalidateProduct(ctx context.Context, productID string) error {
	pattern := cache.ProductPattern(productID)

	var cursor uint64
	var removed int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, sweepBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del swept keys: %w", err)
			}
			removed += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if removed > 0 {
		c.log.DebugContext(ctx, "cache invalidation sweep",
			slog.String("product_id", productID),
			slog.Int("entries_removed", removed),
		)
	}
	return nil
}

// Close releases the underlying Redis client.
func (c *ReviewCache) Close() error {
	return c.client.Close()
}
