package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aguevara193/reviews-api/internal/domain"
	"github.com/aguevara193/reviews-api/internal/repository"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
)

const collectionName = "reviews"

// reviewDocument is the BSON shape of a review record.
type reviewDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ProductID   string             `bson:"product_id"`
	Timestamp   time.Time          `bson:"timestamp"`
	Text        string             `bson:"text"`
	Rating      int                `bson:"rating"`
	AuthorName  string             `bson:"author_name"`
	AuthorEmail string             `bson:"author_email"`
	PictureURLs []string           `bson:"picture_urls"`
	ThumbsUp    int64              `bson:"thumbs_up"`
	ThumbsDown  int64              `bson:"thumbs_down"`
}

func toDocument(r *domain.Review) (*reviewDocument, error) {
	doc := &reviewDocument{
		ProductID:   r.ProductID,
		Timestamp:   r.Timestamp,
		Text:        r.Text,
		Rating:      r.Rating,
		AuthorName:  r.AuthorName,
		AuthorEmail: r.AuthorEmail,
		PictureURLs: r.PictureURLs,
		ThumbsUp:    r.ThumbsUp,
		ThumbsDown:  r.ThumbsDown,
	}
	if doc.PictureURLs == nil {
		doc.PictureURLs = []string{}
	}
	if r.ID != "" {
		oid, err := primitive.ObjectIDFromHex(r.ID)
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid review id %q", r.ID))
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d *reviewDocument) toDomain() *domain.Review {
	r := &domain.Review{
		ID:          d.ID.Hex(),
		ProductID:   d.ProductID,
		Timestamp:   d.Timestamp,
		Text:        d.Text,
		Rating:      d.Rating,
		AuthorName:  d.AuthorName,
		AuthorEmail: d.AuthorEmail,
		PictureURLs: d.PictureURLs,
		ThumbsUp:    d.ThumbsUp,
		ThumbsDown:  d.ThumbsDown,
	}
	r.Normalize()
	return r
}

// ReviewRepository is the MongoDB-backed review store.
type ReviewRepository struct {
	collection *mongo.Collection
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository creates a review repository on the given database.
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collectionName)}
}

// EnsureIndexes declares the indexes backing listing and aggregation
// queries. Mongo treats redeclaring an existing index as a no-op.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "product_id", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "rating", Value: 1}}},
		{Keys: bson.D{{Key: "thumbs_up", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create review indexes: %w", err)
	}
	return nil
}

func productFilter(productIDs []string) bson.M {
	return bson.M{"product_id": bson.M{"$in": productIDs}}
}

func sortSpec(mode domain.SortMode) bson.D {
	switch mode {
	case domain.SortOldest:
		return bson.D{{Key: "timestamp", Value: 1}}
	case domain.SortMostHelpful:
		return bson.D{{Key: "thumbs_up", Value: -1}, {Key: "timestamp", Value: -1}}
	default:
		return bson.D{{Key: "timestamp", Value: -1}}
	}
}

// FindByProducts returns sorted, paginated reviews for the given products.
// The reviewWithPhotos mode needs a computed key, so it runs as an
// aggregation; every other mode is a plain indexed find.
func (r *ReviewRepository) FindByProducts(ctx context.Context, productIDs []string, mode domain.SortMode, offset, limit int64) ([]*domain.Review, error) {
	if mode == domain.SortReviewWithPhotos {
		return r.findWithPhotosFirst(ctx, productIDs, offset, limit)
	}

	opts := options.Find().
		SetSort(sortSpec(mode)).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, productFilter(productIDs), opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	return decodeReviews(ctx, cursor)
}

func (r *ReviewRepository) findWithPhotosFirst(ctx context.Context, productIDs []string, offset, limit int64) ([]*domain.Review, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: productFilter(productIDs)}},
		{{Key: "$addFields", Value: bson.M{
			"has_pictures": bson.M{"$gt": bson.A{
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$picture_urls", bson.A{}}}},
				0,
			}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "has_pictures", Value: -1},
			{Key: "timestamp", Value: -1},
		}}},
		{{Key: "$skip", Value: offset}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate reviews with photos: %w", err)
	}
	return decodeReviews(ctx, cursor)
}

func decodeReviews(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Review, error) {
	defer cursor.Close(ctx)

	reviews := make([]*domain.Review, 0)
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		reviews = append(reviews, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// Count returns the number of reviews across the given products.
func (r *ReviewRepository) Count(ctx context.Context, productIDs []string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, productFilter(productIDs))
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

type ratingGroup struct {
	ProductID     string  `bson:"_id"`
	AverageRating float64 `bson:"average_rating"`
	ReviewCount   int64   `bson:"review_count"`
}

func (r *ReviewRepository) ratingGroups(ctx context.Context, productIDs []string) ([]ratingGroup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: productFilter(productIDs)}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$product_id",
			"average_rating": bson.M{"$avg": "$rating"},
			"review_count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []ratingGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode rating groups: %w", err)
	}
	return groups, nil
}

// AverageRatingPerProduct returns each product's own average rating.
// Products without reviews never appear in the grouped result.
func (r *ReviewRepository) AverageRatingPerProduct(ctx context.Context, productIDs []string) (map[string]float64, error) {
	groups, err := r.ratingGroups(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	averages := make(map[string]float64, len(groups))
	for _, g := range groups {
		averages[g.ProductID] = g.AverageRating
	}
	return averages, nil
}

// CombinedAverageRating returns the mean of the per-product averages.
// Each product contributes its own average with equal weight, regardless
// of how many reviews it has.
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

// RatingSummaries returns per-product average and count for products
// that have at least one review.
func (r *ReviewRepository) RatingSummaries(ctx context.Context, productIDs []string) ([]*domain.RatingSummary, error) {
	groups, err := r.ratingGroups(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.RatingSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, &domain.RatingSummary{
			ProductID:     g.ProductID,
			AverageRating: g.AverageRating,
			ReviewCount:   g.ReviewCount,
		})
	}
	return summaries, nil
}

// FindByID returns the review with the given id.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid review id %q", id))
	}

	var doc reviewDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("review", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find review %s: %w", id, err)
	}
	return doc.toDomain(), nil
}

// FindByIDs returns reviews matching the given ids. Unparseable and
// unknown ids are skipped.
func (r *ReviewRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Review, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []*domain.Review{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find reviews by ids: %w", err)
	}
	return decodeReviews(ctx, cursor)
}

// Insert stores a new review and assigns its id.
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) error {
	review.Normalize()
	doc, err := toDocument(review)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	review.ID = doc.ID.Hex()
	return nil
}

// ReplaceByID overwrites the review with the given id.
func (r *ReviewRepository) ReplaceByID(ctx context.Context, id string, review *domain.Review) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.InvalidInput(fmt.Sprintf("invalid review id %q", id))
	}

	review.Normalize()
	review.ID = id
	doc, err := toDocument(review)
	if err != nil {
		return false, err
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return false, fmt.Errorf("replace review %s: %w", id, err)
	}
	return result.MatchedCount > 0, nil
}

// DeleteByID removes the review with the given id.
func (r *ReviewRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.InvalidInput(fmt.Sprintf("invalid review id %q", id))
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete review %s: %w", id, err)
	}
	return result.DeletedCount > 0, nil
}

// AllPictureURLs returns every picture URL across the given products'
// reviews, newest review first.
func (r *ReviewRepository) AllPictureURLs(ctx context.Context, productIDs []string) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetProjection(bson.M{"picture_urls": 1})

	cursor, err := r.collection.Find(ctx, productFilter(productIDs), opts)
	if err != nil {
		return nil, fmt.Errorf("find picture urls: %w", err)
	}
	defer cursor.Close(ctx)

	urls := make([]string, 0)
	for cursor.Next(ctx) {
		var doc struct {
			PictureURLs []string `bson:"picture_urls"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode picture urls: %w", err)
		}
		urls = append(urls, doc.PictureURLs...)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate picture urls: %w", err)
	}
	return urls, nil
}
