package domain

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func reviewAt(id string, ts time.Time, thumbsUp int64, pictures ...string) *Review {
	return &Review{
		ID:          id,
		ProductID:   "p1",
		Timestamp:   ts,
		Rating:      4,
		ThumbsUp:    thumbsUp,
		PictureURLs: pictures,
	}
}

func sortReviews(mode SortMode, reviews []*Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return mode.Less(reviews[i], reviews[j])
	})
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortNewest, ParseSortMode("newest"))
	assert.Equal(t, SortOldest, ParseSortMode("oldest"))
	assert.Equal(t, SortMostHelpful, ParseSortMode("mostHelpful"))
	assert.Equal(t, SortReviewWithPhotos, ParseSortMode("reviewWithPhotos"))
	assert.Equal(t, DefaultSortMode, ParseSortMode(""))
	assert.Equal(t, DefaultSortMode, ParseSortMode("mostRecent"))
}

func TestSortMode_NewestAndOldest(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := []*Review{
		reviewAt("a", base.Add(1*time.Hour), 0),
		reviewAt("b", base.Add(3*time.Hour), 0),
		reviewAt("c", base.Add(2*time.Hour), 0),
	}

	sortReviews(SortNewest, reviews)
	assert.Equal(t, []string{"b", "c", "a"}, ids(reviews))

	sortReviews(SortOldest, reviews)
	assert.Equal(t, []string{"a", "c", "b"}, ids(reviews))
}

func TestSortMode_MostHelpful(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := []*Review{
		reviewAt("a", base.Add(2*time.Hour), 5),
		reviewAt("b", base.Add(1*time.Hour), 9),
		reviewAt("c", base.Add(3*time.Hour), 5),
	}

	sortReviews(SortMostHelpful, reviews)

	// Equal thumbs-up counts break ties on newest first.
	assert.Equal(t, []string{"b", "c", "a"}, ids(reviews))
}

func TestSortMode_ReviewWithPhotos(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := []*Review{
		reviewAt("plain-new", base.Add(4*time.Hour), 0),
		reviewAt("pics-old", base.Add(1*time.Hour), 0, "u1"),
		reviewAt("pics-new", base.Add(2*time.Hour), 0, "u1", "u2"),
		reviewAt("plain-old", base.Add(3*time.Hour), 0),
	}

	sortReviews(SortReviewWithPhotos, reviews)

	// Every review with pictures sorts before every review without,
	// newest first within each group.
	assert.Equal(t, []string{"pics-new", "pics-old", "plain-new", "plain-old"}, ids(reviews))
}

func TestReview_Normalize(t *testing.T) {
	r := &Review{ID: "r1"}
	r.Normalize()
	assert.NotNil(t, r.PictureURLs)
	assert.Empty(t, r.PictureURLs)

	r2 := &Review{ID: "r2", PictureURLs: []string{"u1"}}
	r2.Normalize()
	assert.Equal(t, []string{"u1"}, r2.PictureURLs)
}

func TestIsValidRating(t *testing.T) {
	assert.False(t, IsValidRating(0))
	assert.True(t, IsValidRating(1))
	assert.True(t, IsValidRating(5))
	assert.False(t, IsValidRating(6))
}

func ids(reviews []*Review) []string {
	out := make([]string, len(reviews))
	for i, r := range reviews {
		out[i] = r.ID
	}
	return out
}
