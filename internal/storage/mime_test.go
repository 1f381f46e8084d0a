package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
)

func TestContentTypeFor_KnownExtensions(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.jpg", "image/jpeg"},
		{"photo.JPEG", "image/jpeg"},
		{"shot.png", "image/png"},
		{"anim.gif", "image/gif"},
		{"scan.bmp", "image/bmp"},
		{"pic.webp", "image/webp"},
		{"pic.avif", "image/avif"},
	}

	for _, tt := range tests {
		ct, err := ContentTypeFor(tt.filename, true)
		require.NoError(t, err, tt.filename)
		assert.Equal(t, tt.want, ct, tt.filename)
	}
}

func TestContentTypeFor_UnknownExtensionFallsBack(t *testing.T) {
	ct, err := ContentTypeFor("notes.txt", false)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", ct)
}

func TestContentTypeFor_StrictRejectsUnknown(t *testing.T) {
	_, err := ContentTypeFor("payload.exe", true)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedMedia)

	_, err = ContentTypeFor("noextension", true)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedMedia)
}
