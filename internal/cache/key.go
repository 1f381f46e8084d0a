package cache

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aguevara193/reviews-api/internal/domain"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
)

// keyPrefix namespaces every review listing entry.
const keyPrefix = "reviews"

// Product ids become key segments, so they are restricted to characters
// that cannot collide with the key's delimiters or glob patterns.
var productIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// NormalizeProductIDs validates, deduplicates, and sorts product ids.
// Sorting makes key construction insensitive to the caller's input
// order, so logically identical queries share one cache entry.
func NormalizeProductIDs(productIDs []string) ([]string, error) {
	if len(productIDs) == 0 {
		return nil, apperrors.InvalidInput("at least one product id is required")
	}

	seen := make(map[string]struct{}, len(productIDs))
	normalized := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if !productIDPattern.MatchString(id) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid product id %q", id))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}

	sort.Strings(normalized)
	return normalized, nil
}

// BuildKey constructs the cache key for a listing query. The ids must
// already be normalized. Each id sits in its own "p:<id>:" segment so
// invalidation can match any constituent id without substring false
// positives.
func BuildKey(normalizedIDs []string, page, size int64, mode domain.SortMode) string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	for _, id := range normalizedIDs {
		b.WriteString(":p:")
		b.WriteString(id)
	}
	fmt.Fprintf(&b, ":page:%d:size:%d:sort:%s", page, size, mode)
	return b.String()
}

// ProductPattern returns the glob matching every listing key that
// includes the given product id.
func ProductPattern(productID string) string {
	return keyPrefix + ":*p:" + productID + ":*"
}
