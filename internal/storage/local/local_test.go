package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aguevara193/reviews-api/internal/storage"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
)

func TestUpload_WritesFileAndBuildsURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAssetStore(dir, "http://localhost:8080/assets/", false)
	require.NoError(t, err)

	result, err := store.Upload(context.Background(), storage.UploadInput{
		Filename: "photo.jpg",
		Content:  strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.URL, "http://localhost:8080/assets/"))
	assert.True(t, strings.HasSuffix(result.URL, ".jpg"))
	assert.Equal(t, "image/jpeg", result.ContentType)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestUpload_GeneratedNameIgnoresClientPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAssetStore(dir, "http://localhost:8080/assets", false)
	require.NoError(t, err)

	result, err := store.Upload(context.Background(), storage.UploadInput{
		Filename: "../../etc/passwd.png",
		Content:  strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	assert.NotContains(t, result.URL, "..")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".png"))
}

func TestUpload_StrictModeRejectsUnknownExtension(t *testing.T) {
	store, err := NewAssetStore(t.TempDir(), "http://localhost:8080/assets", true)
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), storage.UploadInput{
		Filename: "archive.zip",
		Content:  strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedMedia)
}
