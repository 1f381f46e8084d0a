package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aguevara193/reviews-api/internal/storage"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
)

// AssetStore writes uploaded pictures to a local directory and serves
// them under a configured base URL.
type AssetStore struct {
	dir     string
	baseURL string
	strict  bool
}

var _ storage.AssetStore = (*AssetStore)(nil)

// NewAssetStore creates a disk-backed asset store rooted at dir. The
// directory is created if it does not exist.
func NewAssetStore(dir, baseURL string, strict bool) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset directory %s: %w", dir, err)
	}
	return &AssetStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		strict:  strict,
	}, nil
}

// Upload writes the asset to disk under a generated name. The original
// filename only contributes its extension, so path traversal in the
// client-supplied name cannot escape the asset directory.
func (s *AssetStore) Upload(ctx context.Context, input storage.UploadInput) (*storage.UploadResult, error) {
	contentType, err := storage.ContentTypeFor(input.Filename, s.strict)
	if err != nil {
		return nil, err
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(input.Filename))
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, apperrors.Upstream("asset storage", err)
	}

	if _, err := io.Copy(f, input.Content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, apperrors.Upstream("asset storage", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, apperrors.Upstream("asset storage", err)
	}

	return &storage.UploadResult{
		URL:         s.baseURL + "/" + name,
		ContentType: contentType,
	}, nil
}
