package domain

// SortMode identifies an ordering applied to review listings.
type SortMode string

// Supported sort modes.
const (
	SortNewest           SortMode = "newest"
	SortOldest           SortMode = "oldest"
	SortMostHelpful      SortMode = "mostHelpful"
	SortReviewWithPhotos SortMode = "reviewWithPhotos"
)

// DefaultSortMode is applied when no mode or an unknown mode is requested.
const DefaultSortMode = SortNewest

// ParseSortMode maps a request string to a sort mode. Unknown or empty
// values fall back to DefaultSortMode rather than erroring.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortNewest, SortOldest, SortMostHelpful, SortReviewWithPhotos:
		return SortMode(s)
	default:
		return DefaultSortMode
	}
}

// Less reports whether review a sorts before review b under the given mode.
// Ties under mostHelpful and reviewWithPhotos fall back to timestamp
// descending so orderings stay stable across pages.
func (m SortMode) Less(a, b *Review) bool {
	switch m {
	case SortOldest:
		return a.Timestamp.Before(b.Timestamp)
	case SortMostHelpful:
		if a.ThumbsUp != b.ThumbsUp {
			return a.ThumbsUp > b.ThumbsUp
		}
		return a.Timestamp.After(b.Timestamp)
	case SortReviewWithPhotos:
		if a.HasPictures() != b.HasPictures() {
			return a.HasPictures()
		}
		return a.Timestamp.After(b.Timestamp)
	default:
		return a.Timestamp.After(b.Timestamp)
	}
}
