package storage

import (
	"context"
	"io"
)

// UploadInput describes a single asset to store.
type UploadInput struct {
	Filename string
	Content  io.Reader
	Size     int64
}

// UploadResult is the outcome of a successful upload.
type UploadResult struct {
	URL         string
	ContentType string
}

// AssetStore persists uploaded review pictures and yields publicly
// addressable URLs for them.
type AssetStore interface {
	// Upload stores the asset and returns its URL. The returned URL is
	// what gets recorded on the review.
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}
