package repository

import (
	"context"

	"github.com/aguevara193/reviews-api/internal/domain"
)

// ReviewRepository defines persistence operations for reviews.
//
// Product id filters always target a set: unknown ids yield no matches
// rather than errors. Aggregations skip products with zero reviews, so
// callers can tell "no data" apart from "average of zero".
type ReviewRepository interface {
	// EnsureIndexes declares the indexes used by listing and aggregation
	// queries. Safe to call repeatedly.
	EnsureIndexes(ctx context.Context) error

	// FindByProducts returns reviews for the given products, ordered by
	// the sort mode, with offset/limit applied after sorting.
	FindByProducts(ctx context.Context, productIDs []string, mode domain.SortMode, offset, limit int64) ([]*domain.Review, error)

	// Count returns the number of reviews across the given products.
	Count(ctx context.Context, productIDs []string) (int64, error)

	// AverageRatingPerProduct returns each product's own average rating.
	// Products with no reviews are absent from the map.
	AverageRatingPerProduct(ctx context.Context, productIDs []string) (map[string]float64, error)

	// CombinedAverageRating returns the arithmetic mean of the per-product
	// averages. The second return is false when none of the products have
	// reviews.
	CombinedAverageRating(ctx context.Context, productIDs []string) (float64, bool, error)

	// RatingSummaries returns per-product average and count, skipping
	// products without reviews.
	RatingSummaries(ctx context.Context, productIDs []string) ([]*domain.RatingSummary, error)

	// FindByID returns the review with the given id, or a not-found error.
	FindByID(ctx context.Context, id string) (*domain.Review, error)

	// FindByIDs returns the reviews matching the given ids. Missing ids
	// are silently skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Review, error)

	// Insert stores a new review and assigns its id.
	Insert(ctx context.Context, review *domain.Review) error

	// ReplaceByID overwrites the review with the given id. Returns false
	// when no such review exists.
	ReplaceByID(ctx context.Context, id string, review *domain.Review) (bool, error)

	// DeleteByID removes the review with the given id. Returns false when
	// no such review exists.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// AllPictureURLs returns every picture URL across the given products'
	// reviews, flattened in listing order.
	AllPictureURLs(ctx context.Context, productIDs []string) ([]string, error)
}
