package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("review", "abc123")

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "review")
	assert.Contains(t, err.Message, "abc123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("rating must be between 1 and 5")

	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpstream(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("review store", cause)

	assert.Equal(t, "UPSTREAM_FAILURE", err.Code)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, cause)
	// The cause must not leak into the caller-visible message.
	assert.NotContains(t, err.Message, "connection refused")
}

func TestUnsupportedMedia(t *testing.T) {
	err := UnsupportedMedia(`extension ".exe" is not an allowed image type`)

	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", err.Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, err.Status)
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error not found", NotFound("review", "x"), http.StatusNotFound},
		{"wrapped sentinel", fmt.Errorf("fetch: %w", ErrNotFound), http.StatusNotFound},
		{"invalid input sentinel", ErrInvalidInput, http.StatusBadRequest},
		{"upstream sentinel", ErrUpstream, http.StatusBadGateway},
		{"unsupported media sentinel", ErrUnsupportedMedia, http.StatusUnsupportedMediaType},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
}
