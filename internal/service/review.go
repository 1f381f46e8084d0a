package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aguevara193/reviews-api/internal/cache"
	"github.com/aguevara193/reviews-api/internal/domain"
	"github.com/aguevara193/reviews-api/internal/event"
	"github.com/aguevara193/reviews-api/internal/repository"
	"github.com/aguevara193/reviews-api/internal/storage"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
)

// DefaultCacheTTL bounds how stale a cached review list may get.
const DefaultCacheTTL = 10 * time.Minute

// Listing defaults and bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListReviewsInput holds the parameters of a listing query.
type ListReviewsInput struct {
	ProductIDs []string
	Page       int64
	PageSize   int64
	SortBy     string
}

// ListReviewsResult is the listing response: the page of reviews plus
// aggregates that are always computed live, never served from cache.
type ListReviewsResult struct {
	Reviews       []*domain.Review `json:"reviews"`
	TotalCount    int64            `json:"total_count"`
	AverageRating *float64         `json:"average_rating,omitempty"`
	Page          int64            `json:"page"`
	PageSize      int64            `json:"page_size"`
	SortBy        domain.SortMode  `json:"sort_by"`
	CacheHit      bool             `json:"-"`
}

// ReviewInput holds the fields of a new review.
type ReviewInput struct {
	ProductID   string
	Text        string
	Rating      int
	AuthorName  string
	AuthorEmail string
	Pictures    []storage.UploadInput
}

// UpdateReviewInput carries a partial update. Nil fields keep the
// stored value; pictures replace the list only when attached. A review
// cannot be moved to another product.
type UpdateReviewInput struct {
	Text        *string
	Rating      *int
	AuthorName  *string
	AuthorEmail *string
	Pictures    []storage.UploadInput
}

// ReviewService coordinates the review store, the listing cache, asset
// uploads, and domain events.
type ReviewService struct {
	repo     repository.ReviewRepository
	cache    cache.ReviewCache
	assets   storage.AssetStore
	events   event.Publisher
	logger   *slog.Logger
	cacheTTL time.Duration
}

// NewReviewService creates a review service. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewReviewService(
	repo repository.ReviewRepository,
	reviewCache cache.ReviewCache,
	assets storage.AssetStore,
	events event.Publisher,
	logger *slog.Logger,
	cacheTTL time.Duration,
) *ReviewService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &ReviewService{
		repo:     repo,
		cache:    reviewCache,
		assets:   assets,
		events:   events,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

func clampPaging(page, size int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// ListReviews serves a listing query cache-aside: the review list may be
// up to TTL stale, while total count and average rating are recomputed
// against the store on every call, hit or miss.
func (s *ReviewService) ListReviews(ctx context.Context, input ListReviewsInput) (*ListReviewsResult, error) {
	productIDs, err := cache.NormalizeProductIDs(input.ProductIDs)
	if err != nil {
		return nil, err
	}

	page, size := clampPaging(input.Page, input.PageSize)
	mode := domain.ParseSortMode(input.SortBy)
	key := cache.BuildKey(productIDs, page, size, mode)

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, apperrors.Upstream("cache", err)
	}

	result := &ListReviewsResult{
		Page:     page,
		PageSize: size,
		SortBy:   mode,
	}

	if cached != nil {
		result.Reviews = cached
		result.CacheHit = true
	} else {
		offset := (page - 1) * size
		reviews, err := s.repo.FindByProducts(ctx, productIDs, mode, offset, size)
		if err != nil {
			return nil, apperrors.Upstream("review store", err)
		}
		result.Reviews = reviews

		if err := s.cache.Set(ctx, key, reviews, s.cacheTTL); err != nil {
			return nil, apperrors.Upstream("cache", err)
		}
	}

	count, err := s.repo.Count(ctx, productIDs)
	if err != nil {
		return nil, apperrors.Upstream("review store", err)
	}
	result.TotalCount = count

	avg, ok, err := s.repo.CombinedAverageRating(ctx, productIDs)
	if err != nil {
		return nil, apperrors.Upstream("review store", err)
	}
	if ok {
		result.AverageRating = &avg
	}

	return result, nil
}

// GetRatings returns per-product rating summaries. Products without
// reviews are omitted.
func (s *ReviewService) GetRatings(ctx context.Context, productIDs []string) ([]*domain.RatingSummary, error) {
	normalized, err := cache.NormalizeProductIDs(productIDs)
	if err != nil {
		return nil, err
	}

	summaries, err := s.repo.RatingSummaries(ctx, normalized)
	if err != nil {
		return nil, apperrors.Upstream("review store", err)
	}
	return summaries, nil
}

// GetPictureURLs returns every picture URL across the products' reviews.
func (s *ReviewService) GetPictureURLs(ctx context.Context, productIDs []string) ([]string, error) {
	normalized, err := cache.NormalizeProductIDs(productIDs)
	if err != nil {
		return nil, err
	}

	urls, err := s.repo.AllPictureURLs(ctx, normalized)
	if err != nil {
		return nil, apperrors.Upstream("review store", err)
	}
	return urls, nil
}

// GetByIDs returns the reviews matching the given ids. Unknown ids are
// skipped rather than erroring.
func (s *ReviewService) GetByIDs(ctx context.Context, ids []string) ([]*domain.Review, error) {
	if len(ids) == 0 {
		return nil, apperrors.InvalidInput("at least one review id is required")
	}

	reviews, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Upstream("review store", err)
	}
	return reviews, nil
}

func validateInput(input *ReviewInput) error {
	if input.ProductID == "" {
		return apperrors.InvalidInput("product_id is required")
	}
	if !domain.IsValidRating(input.Rating) {
		return apperrors.InvalidInput("rating must be between 1 and 5")
	}
	return nil
}

// uploadPictures stores each attached picture and returns the URLs in
// attachment order. Every upload must succeed; a failed upload fails the
// whole mutation so a review never silently loses pictures.
func (s *ReviewService) uploadPictures(ctx context.Context, pictures []storage.UploadInput) ([]string, error) {
	urls := make([]string, 0, len(pictures))
	for _, pic := range pictures {
		result, err := s.assets.Upload(ctx, pic)
		if err != nil {
			return nil, err
		}
		urls = append(urls, result.URL)
	}
	return urls, nil
}

// afterMutation sweeps the product's cache entries and publishes the
// domain event. Both are best-effort: the store of record has already
// committed, so failures here are logged and swallowed. A missed sweep
// self-heals at TTL expiry.
func (s *ReviewService) afterMutation(ctx context.Context, productID string, publish func() error) {
	if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
		s.logger.ErrorContext(ctx, "cache invalidation failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	if err := publish(); err != nil {
		s.logger.ErrorContext(ctx, "event publish failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

// CreateReview stores a new review. Attached pictures are uploaded first
// and their URLs recorded on the review.
func (s *ReviewService) CreateReview(ctx context.Context, input *ReviewInput) (*domain.Review, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	urls, err := s.uploadPictures(ctx, input.Pictures)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		ProductID:   input.ProductID,
		Timestamp:   time.Now().UTC(),
		Text:        input.Text,
		Rating:      input.Rating,
		AuthorName:  input.AuthorName,
		AuthorEmail: input.AuthorEmail,
		PictureURLs: urls,
	}
	review.Normalize()

	if err := s.repo.Insert(ctx, review); err != nil {
		return nil, apperrors.Upstream("review store", err)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.Int("rating", review.Rating),
		slog.Int("pictures", len(review.PictureURLs)),
	)

	s.afterMutation(ctx, review.ProductID, func() error {
		return s.events.PublishReviewCreated(ctx, review)
	})
	return review, nil
}

// UpdateReview applies a partial update: only the fields supplied in
// the input change, everything else keeps its stored value. The product
// binding, the original timestamp, and the vote counters never change.
// Newly attached pictures replace the existing picture list.
func (s *ReviewService) UpdateReview(ctx context.Context, id string, input *UpdateReviewInput) (*domain.Review, error) {
	if input.Rating != nil && !domain.IsValidRating(*input.Rating) {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := existing
	if input.Text != nil {
		updated.Text = *input.Text
	}
	if input.Rating != nil {
		updated.Rating = *input.Rating
	}
	if input.AuthorName != nil {
		updated.AuthorName = *input.AuthorName
	}
	if input.AuthorEmail != nil {
		updated.AuthorEmail = *input.AuthorEmail
	}
	if len(input.Pictures) > 0 {
		urls, err := s.uploadPictures(ctx, input.Pictures)
		if err != nil {
			return nil, err
		}
		updated.PictureURLs = urls
	}
	updated.Normalize()

	replaced, err := s.repo.ReplaceByID(ctx, id, updated)
	if err != nil {
		return nil, apperrors.Upstream("review store", err)
	}
	if !replaced {
		return nil, apperrors.NotFound("review", id)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", id),
		slog.String("product_id", updated.ProductID),
	)

	s.afterMutation(ctx, updated.ProductID, func() error {
		return s.events.PublishReviewUpdated(ctx, updated)
	})
	return updated, nil
}

// DeleteReview removes a review.
func (s *ReviewService) DeleteReview(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return apperrors.Upstream("review store", err)
	}
	if !deleted {
		return apperrors.NotFound("review", id)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", id),
		slog.String("product_id", existing.ProductID),
	)

	s.afterMutation(ctx, existing.ProductID, func() error {
		return s.events.PublishReviewDeleted(ctx, id, existing.ProductID)
	})
	return nil
}

func (s *ReviewService) vote(ctx context.Context, id, direction string) (*domain.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch direction {
	case event.VoteThumbsUp:
		review.ThumbsUp++
	case event.VoteThumbsDown:
		review.ThumbsDown++
	}

	replaced, err := s.repo.ReplaceByID(ctx, id, review)
	if err != nil {
		return nil, apperrors.Upstream("review store", err)
	}
	if !replaced {
		return nil, apperrors.NotFound("review", id)
	}

	s.logger.InfoContext(ctx, "review vote recorded",
		slog.String("review_id", id),
		slog.String("direction", direction),
	)

	s.afterMutation(ctx, review.ProductID, func() error {
		return s.events.PublishReviewVoted(ctx, review, direction)
	})
	return review, nil
}

// ThumbsUp increments a review's thumbs-up counter by one.
func (s *ReviewService) ThumbsUp(ctx context.Context, id string) (*domain.Review, error) {
	return s.vote(ctx, id, event.VoteThumbsUp)
}

// ThumbsDown increments a review's thumbs-down counter by one.
func (s *ReviewService) ThumbsDown(ctx context.Context, id string) (*domain.Review, error) {
	return s.vote(ctx, id, event.VoteThumbsDown)
}
