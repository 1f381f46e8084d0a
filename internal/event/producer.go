package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aguevara193/reviews-api/internal/domain"
	pkgkafka "github.com/aguevara193/reviews-api/pkg/kafka"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewCreated = "reviews.review.created"
	TopicReviewUpdated = "reviews.review.updated"
	TopicReviewDeleted = "reviews.review.deleted"
	TopicReviewVoted   = "reviews.review.voted"
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from this service.
const SourceReviewsAPI = "reviews-api"

// Vote direction constants carried in review.voted events.
const (
	VoteThumbsUp   = "up"
	VoteThumbsDown = "down"
)

// ReviewData is the payload for review.created and review.updated events.
type ReviewData struct {
	ID          string   `json:"id"`
	ProductID   string   `json:"product_id"`
	Rating      int      `json:"rating"`
	PictureURLs []string `json:"picture_urls"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
}

// ReviewVotedData is the payload for a review.voted event.
type ReviewVotedData struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Direction  string `json:"direction"`
	ThumbsUp   int64  `json:"thumbs_up"`
	ThumbsDown int64  `json:"thumbs_down"`
}

// Publisher publishes review domain events.
type Publisher interface {
	PublishReviewCreated(ctx context.Context, review *domain.Review) error
	PublishReviewUpdated(ctx context.Context, review *domain.Review) error
	PublishReviewDeleted(ctx context.Context, id, productID string) error
	PublishReviewVoted(ctx context.Context, review *domain.Review, direction string) error
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

var _ Publisher = (*Producer)(nil)

// NewProducer creates a new event producer for the reviews service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publishReview(ctx context.Context, topic string, review *domain.Review) error {
	data := ReviewData{
		ID:          review.ID,
		ProductID:   review.ProductID,
		Rating:      review.Rating,
		PictureURLs: review.PictureURLs,
	}

	event, err := pkgkafka.NewEvent(topic, review.ID, AggregateTypeReview, SourceReviewsAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published review event",
		slog.String("topic", topic),
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)
	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	return p.publishReview(ctx, TopicReviewCreated, review)
}

// PublishReviewUpdated publishes a review.updated event.
func (p *Producer) PublishReviewUpdated(ctx context.Context, review *domain.Review) error {
	return p.publishReview(ctx, TopicReviewUpdated, review)
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, id, productID string) error {
	data := ReviewDeletedData{ID: id, ProductID: productID}

	event, err := pkgkafka.NewEvent(TopicReviewDeleted, id, AggregateTypeReview, SourceReviewsAPI, data)
	if err != nil {
		return fmt.Errorf("create review.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewDeleted, event); err != nil {
		return fmt.Errorf("publish review.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.deleted event",
		slog.String("review_id", id),
		slog.String("product_id", productID),
	)
	return nil
}

// PublishReviewVoted publishes a review.voted event.
func (p *Producer) PublishReviewVoted(ctx context.Context, review *domain.Review, direction string) error {
	data := ReviewVotedData{
		ID:         review.ID,
		ProductID:  review.ProductID,
		Direction:  direction,
		ThumbsUp:   review.ThumbsUp,
		ThumbsDown: review.ThumbsDown,
	}

	event, err := pkgkafka.NewEvent(TopicReviewVoted, review.ID, AggregateTypeReview, SourceReviewsAPI, data)
	if err != nil {
		return fmt.Errorf("create review.voted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewVoted, event); err != nil {
		return fmt.Errorf("publish review.voted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.voted event",
		slog.String("review_id", review.ID),
		slog.String("direction", direction),
	)
	return nil
}
