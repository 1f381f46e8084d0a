package http

import (
	"mime"
	"net/http"

	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
	"github.com/aguevara193/reviews-api/pkg/httputil"
)

// AllowReviewPayload rejects request bodies that are neither JSON nor
// multipart form data before the handler starts parsing.
func AllowReviewPayload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || (mediaType != "application/json" && mediaType != "multipart/form-data") {
			httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "UNSUPPORTED_MEDIA_TYPE",
					Message: apperrors.UnsupportedMedia("expected application/json or multipart/form-data").Message,
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
