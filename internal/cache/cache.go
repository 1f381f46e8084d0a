package cache

import (
	"context"
	"time"

	"github.com/aguevara193/reviews-api/internal/domain"
)

// ReviewCache stores serialized review lists under deterministic keys.
//
// Get distinguishes a miss (nil slice, nil error) from a transport
// failure (non-nil error). Corrupt entries are treated as misses by
// implementations, not surfaced as errors.
type ReviewCache interface {
	// Get returns the cached review list for the key, or nil on a miss.
	Get(ctx context.Context, key string) ([]*domain.Review, error)

	// Set stores the review list under the key with the given TTL.
	Set(ctx context.Context, key string, reviews []*domain.Review, ttl time.Duration) error

	// InvalidateProduct removes every cached listing that includes the
	// given product id, regardless of what other ids share the entry.
	InvalidateProduct(ctx context.Context, productID string) error

	// Close releases the underlying client connections.
	Close() error
}
