package domain

import (
	"time"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a single product review.
type Review struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Timestamp   time.Time `json:"timestamp"`
	Text        string    `json:"text"`
	Rating      int       `json:"rating"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	PictureURLs []string  `json:"picture_urls"`
	ThumbsUp    int64     `json:"thumbs_up"`
	ThumbsDown  int64     `json:"thumbs_down"`
}

// HasPictures reports whether the review carries at least one picture URL.
func (r *Review) HasPictures() bool {
	return len(r.PictureURLs) > 0
}

// Normalize enforces structural invariants on the record: PictureURLs is
// always a non-nil slice.
func (r *Review) Normalize() {
	if r.PictureURLs == nil {
		r.PictureURLs = []string{}
	}
}

// IsValidRating checks whether the rating falls inside the allowed range.
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// RatingSummary holds aggregate rating statistics for a single product.
type RatingSummary struct {
	ProductID     string  `json:"product_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}
