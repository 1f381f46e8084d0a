package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aguevara193/reviews-api/internal/domain"
	"github.com/aguevara193/reviews-api/internal/repository"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
	"github.com/google/uuid"
)

// ReviewRepository is an in-memory review store. It mirrors the MongoDB
// repository's semantics and backs unit tests and local development.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review
	order   []string
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository creates an empty in-memory review store.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		reviews: make(map[string]*domain.Review),
		order:   make([]string, 0),
	}
}

// EnsureIndexes is a no-op for the in-memory store.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (r *ReviewRepository) matching(productIDs []string) []*domain.Review {
	wanted := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}

	matched := make([]*domain.Review, 0)
	for _, id := range r.order {
		review := r.reviews[id]
		if _, ok := wanted[review.ProductID]; ok {
			matched = append(matched, cloneReview(review))
		}
	}
	return matched
}

func cloneReview(r *domain.Review) *domain.Review {
	cpy := *r
	cpy.PictureURLs = append([]string{}, r.PictureURLs...)
	return &cpy
}

// FindByProducts returns sorted, paginated reviews for the given products.
func (r *ReviewRepository) FindByProducts(ctx context.Context, productIDs []string, mode domain.SortMode, offset, limit int64) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matching(productIDs)
	sort.SliceStable(matched, func(i, j int) bool {
		return mode.Less(matched[i], matched[j])
	})

	if offset >= int64(len(matched)) {
		return []*domain.Review{}, nil
	}
	matched = matched[offset:]
	if limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the number of reviews across the given products.
func (r *ReviewRepository) Count(ctx context.Context, productIDs []string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matching(productIDs))), nil
}

// AverageRatingPerProduct returns each product's own average rating.
func (r *ReviewRepository) AverageRatingPerProduct(ctx context.Context, productIDs []string) (map[string]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sums := make(map[string]float64)
	counts := make(map[string]int64)
	for _, review := range r.matching(productIDs) {
		sums[review.ProductID] += float64(review.Rating)
		counts[review.ProductID]++
	}

	averages := make(map[string]float64, len(sums))
	for productID, sum := range sums {
		averages[productID] = sum / float64(counts[productID])
	}
	return averages, nil
}

// CombinedAverageRating returns the mean of the per-product averages.
func (r *ReviewRepository) CombinedAverageRating(ctx context.Context, productIDs []string) (float64, bool, error) {
	averages, err := r.AverageRatingPerProduct(ctx, productIDs)
	if err != nil {
		return 0, false, err
	}
	if len(averages) == 0 {
		return 0, false, nil
	}

	var sum float64
	for _, avg := range averages {
		sum += avg
	}
	return sum / float64(len(averages)), true, nil
}

// RatingSummaries returns per-product average and count.
func (r *ReviewRepository) RatingSummaries(ctx context.Context, productIDs []string) ([]*domain.RatingSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sums := make(map[string]float64)
	counts := make(map[string]int64)
	seen := make([]string, 0)
	for _, review := range r.matching(productIDs) {
		if _, ok := counts[review.ProductID]; !ok {
			seen = append(seen, review.ProductID)
		}
		sums[review.ProductID] += float64(review.Rating)
		counts[review.ProductID]++
	}

	summaries := make([]*domain.RatingSummary, 0, len(seen))
	for _, productID := range seen {
		summaries = append(summaries, &domain.RatingSummary{
			ProductID:     productID,
			AverageRating: sums[productID] / float64(counts[productID]),
			ReviewCount:   counts[productID],
		})
	}
	return summaries, nil
}

// FindByID returns the review with the given id.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	return cloneReview(review), nil
}

// FindByIDs returns reviews matching the given ids, skipping unknown ones.
func (r *ReviewRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make([]*domain.Review, 0, len(ids))
	for _, id := range ids {
		if review, ok := r.reviews[id]; ok {
			found = append(found, cloneReview(review))
		}
	}
	return found, nil
}

// Insert stores a new review and assigns its id.
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review.Normalize()
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if _, exists := r.reviews[review.ID]; exists {
		return fmt.Errorf("review %s already exists", review.ID)
	}

	r.reviews[review.ID] = cloneReview(review)
	r.order = append(r.order, review.ID)
	return nil
}

// ReplaceByID overwrites the review with the given id.
func (r *ReviewRepository) ReplaceByID(ctx context.Context, id string, review *domain.Review) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return false, nil
	}

	review.Normalize()
	review.ID = id
	r.reviews[id] = cloneReview(review)
	return true, nil
}

// DeleteByID removes the review with the given id.
func (r *ReviewRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return false, nil
	}

	delete(r.reviews, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// AllPictureURLs returns every picture URL across the given products'
// reviews, newest review first.
func (r *ReviewRepository) AllPictureURLs(ctx context.Context, productIDs []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matching(productIDs)
	sort.SliceStable(matched, func(i, j int) bool {
		return domain.SortNewest.Less(matched[i], matched[j])
	})

	urls := make([]string, 0)
	for _, review := range matched {
		urls = append(urls, review.PictureURLs...)
	}
	return urls, nil
}
