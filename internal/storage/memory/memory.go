package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/aguevara193/reviews-api/internal/storage"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
)

// AssetStore keeps uploaded assets in memory. Used in tests and local
// development where no real storage backend is available.
type AssetStore struct {
	mu     sync.RWMutex
	assets map[string][]byte
	strict bool
}

var _ storage.AssetStore = (*AssetStore)(nil)

// NewAssetStore creates an empty in-memory asset store.
func NewAssetStore(strict bool) *AssetStore {
	return &AssetStore{
		assets: make(map[string][]byte),
		strict: strict,
	}
}

// Upload buffers the asset and returns a synthetic URL.
func (s *AssetStore) Upload(ctx context.Context, input storage.UploadInput) (*storage.UploadResult, error) {
	contentType, err := storage.ContentTypeFor(input.Filename, s.strict)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(input.Content)
	if err != nil {
		return nil, apperrors.Upstream("asset storage", err)
	}

	url := fmt.Sprintf("memory://assets/%s", uuid.New().String())

	s.mu.Lock()
	s.assets[url] = data
	s.mu.Unlock()

	return &storage.UploadResult{
		URL:         url,
		ContentType: contentType,
	}, nil
}

// Get returns a stored asset's bytes. Test helper.
func (s *AssetStore) Get(url string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.assets[url]
	return data, ok
}

// Len returns the number of stored assets. Test helper.
func (s *AssetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}
