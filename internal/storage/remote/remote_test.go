package remote

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aguevara193/reviews-api/internal/storage"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
	"github.com/aguevara193/reviews-api/pkg/httpclient"
	"github.com/aguevara193/reviews-api/pkg/logger"
)

func newTestStore(t *testing.T, handler http.HandlerFunc, strict bool) (*AssetStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second

	var buf bytes.Buffer
	log := logger.NewWithWriter("reviews-api", "warn", &buf)
	client := httpclient.NewBreakerClient(httpclient.New(cfg), httpclient.DefaultBreakerConfig("media"), log)

	return NewAssetStore(client, srv.URL+"/upload", strict), srv
}

func TestUpload_PostsMultipartAndReturnsURL(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "photo.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"url":"https://media.example.com/assets/abc.jpg"}`))
	}, true)

	result, err := store.Upload(context.Background(), storage.UploadInput{
		Filename: "photo.jpg",
		Content:  strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://media.example.com/assets/abc.jpg", result.URL)
	assert.Equal(t, "image/jpeg", result.ContentType)
}

func TestUpload_MediaServiceErrorIsUpstream(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, false)

	_, err := store.Upload(context.Background(), storage.UploadInput{
		Filename: "photo.png",
		Content:  strings.NewReader("png-bytes"),
	})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestUpload_StrictModeRejectsBeforeAnyRequest(t *testing.T) {
	var called bool
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, true)

	_, err := store.Upload(context.Background(), storage.UploadInput{
		Filename: "malware.exe",
		Content:  strings.NewReader("x"),
	})

	assert.ErrorIs(t, err, apperrors.ErrUnsupportedMedia)
	assert.False(t, called)
}
