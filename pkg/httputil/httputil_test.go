package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
	"github.com/aguevara193/reviews-api/pkg/logger"
	"github.com/aguevara193/reviews-api/pkg/validator"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusCreated, Response{Data: map[string]string{"id": "1"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotNil(t, resp.Data)
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)

	WriteError(rec, req, apperrors.NotFound("review", "deadbeef"), logger.New("test", "error"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteError_UpstreamSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)

	err := fmt.Errorf("list reviews: %w", apperrors.ErrUpstream)
	WriteError(rec, req, err, logger.New("test", "error"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UPSTREAM_FAILURE", resp.Error.Code)
	// The cause stays server-side.
	assert.NotContains(t, resp.Error.Message, "list reviews")
}

func TestWriteError_Unknown(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)

	WriteError(rec, req, errors.New("boom"), logger.New("test", "error"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWriteValidationError_FieldDetails(t *testing.T) {
	type body struct {
		Rating int `validate:"required,min=1,max=5"`
	}
	err := validator.Validate(body{Rating: 9})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Rating")
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]int{1, 2}, 5, 1, 2)

	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)

	last := NewPaginatedResponse([]int{5}, 5, 3, 2)
	assert.False(t, last.HasNext)

	empty := NewPaginatedResponse[int](nil, 0, 1, 10)
	assert.NotNil(t, empty.Data)
	assert.Zero(t, empty.TotalPages)
}
