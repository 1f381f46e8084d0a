package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/aguevara193/reviews-api/internal/storage"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
	"github.com/aguevara193/reviews-api/pkg/httpclient"
)

// AssetStore uploads pictures to an external media service over HTTP.
// Calls go through a circuit breaker so a failing media service sheds
// load fast instead of tying up request handlers in retries.
type AssetStore struct {
	client    *httpclient.BreakerClient
	uploadURL string
	strict    bool
}

var _ storage.AssetStore = (*AssetStore)(nil)

// NewAssetStore creates a media-service-backed asset store. uploadURL
// is the media service's upload endpoint.
func NewAssetStore(client *httpclient.BreakerClient, uploadURL string, strict bool) *AssetStore {
	return &AssetStore{
		client:    client,
		uploadURL: uploadURL,
		strict:    strict,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload streams the asset to the media service as multipart form data
// and returns the URL the service assigned.
func (s *AssetStore) Upload(ctx context.Context, input storage.UploadInput) (*storage.UploadResult, error) {
	contentType, err := storage.ContentTypeFor(input.Filename, s.strict)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", input.Filename)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, input.Content); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(writer.Close())
	}()

	// The multipart body streams through a pipe and cannot be rewound,
	// so the request goes straight to Do without retry rewinding.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, pr)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Upstream("media service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apperrors.Upstream("media service",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.Upstream("media service", fmt.Errorf("decode upload response: %w", err))
	}
	if body.URL == "" {
		return nil, apperrors.Upstream("media service", fmt.Errorf("upload response missing url"))
	}

	return &storage.UploadResult{
		URL:         body.URL,
		ContentType: contentType,
	}, nil
}
