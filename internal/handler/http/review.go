package http

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aguevara193/reviews-api/internal/domain"
	"github.com/aguevara193/reviews-api/internal/service"
	"github.com/aguevara193/reviews-api/internal/storage"
	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
	"github.com/aguevara193/reviews-api/pkg/httputil"
	"github.com/aguevara193/reviews-api/pkg/validator"
)

// maxUploadBytes caps the in-memory portion of multipart parsing.
const maxUploadBytes = 32 << 20

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ReviewRequest is the JSON request body for creating a review.
type ReviewRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Text        string `json:"text"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	AuthorName  string `json:"author_name" validate:"max=255"`
	AuthorEmail string `json:"author_email" validate:"omitempty,email"`
}

// UpdateReviewRequest is the JSON request body for a partial review
// update. Absent fields keep their stored values; the product binding
// cannot be changed.
type UpdateReviewRequest struct {
	Text        *string `json:"text"`
	Rating      *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	AuthorName  *string `json:"author_name" validate:"omitempty,max=255"`
	AuthorEmail *string `json:"author_email" validate:"omitempty,email"`
}

// listReviewsResponse extends the shared paginated envelope with the
// listing's live aggregates.
type listReviewsResponse struct {
	httputil.PaginatedResponse[*domain.Review]
	AverageRating *float64        `json:"average_rating,omitempty"`
	SortBy        domain.SortMode `json:"sort_by"`
}

// --- Query helpers ---

// queryList reads a multi-valued query parameter, accepting both
// repeated params and comma-separated values.
func queryList(r *http.Request, name string) []string {
	values := make([]string, 0)
	for _, raw := range r.URL.Query()[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

func queryInt64(r *http.Request, name string, fallback int64) int64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// --- Handlers ---

// ListReviews handles GET /api/v1/reviews
// @Summary List reviews across products
// @Description Returns a sorted, paginated review list with live total count and combined average rating
// @Tags reviews
// @Produce json
// @Param productIds query string true "Comma-separated product ids"
// @Param pageNumber query int false "1-based page number" default(1)
// @Param pageSize query int false "Page size (max 100)" default(20)
// @Param sortBy query string false "newest | oldest | mostHelpful | reviewWithPhotos" default(newest)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/reviews [get]
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListReviews(r.Context(), service.ListReviewsInput{
		ProductIDs: queryList(r, "productIds"),
		Page:       queryInt64(r, "pageNumber", 1),
		PageSize:   queryInt64(r, "pageSize", service.DefaultPageSize),
		SortBy:     r.URL.Query().Get("sortBy"),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := listReviewsResponse{
		PaginatedResponse: httputil.NewPaginatedResponse(
			result.Reviews, int(result.TotalCount), int(result.Page), int(result.PageSize)),
		AverageRating: result.AverageRating,
		SortBy:        result.SortBy,
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// GetRatings handles GET /api/v1/reviews/ratings
// @Summary Per-product rating summaries
// @Tags reviews
// @Produce json
// @Param productIds query string true "Comma-separated product ids"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/reviews/ratings [get]
func (h *ReviewHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.GetRatings(r.Context(), queryList(r, "productIds"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summaries})
}

// GetPictures handles GET /api/v1/reviews/pictures
// @Summary All picture URLs across the products' reviews
// @Tags reviews
// @Produce json
// @Param productIds query string true "Comma-separated product ids"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/reviews/pictures [get]
func (h *ReviewHandler) GetPictures(w http.ResponseWriter, r *http.Request) {
	urls, err := h.service.GetPictureURLs(r.Context(), queryList(r, "productIds"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: urls})
}

// GetByIDs handles GET /api/v1/reviews/by-ids
// @Summary Fetch reviews by id list
// @Tags reviews
// @Produce json
// @Param ids query string true "Comma-separated review ids"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews/by-ids [get]
func (h *ReviewHandler) GetByIDs(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetByIDs(r.Context(), queryList(r, "ids"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if len(reviews) == 0 {
		httputil.WriteError(w, r, apperrors.NotFound("reviews", strings.Join(queryList(r, "ids"), ",")), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// parseReviewInput reads a review payload from either a multipart form
// (with optional picture files under the "pictures" field) or a JSON body.
func (h *ReviewHandler) parseReviewInput(r *http.Request) (*service.ReviewInput, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.InvalidInput("missing or malformed Content-Type header")
	}

	var req ReviewRequest
	input := &service.ReviewInput{}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, apperrors.InvalidInput("malformed multipart form")
		}
		rating, err := strconv.Atoi(r.FormValue("rating"))
		if err != nil {
			return nil, apperrors.InvalidInput("rating must be an integer")
		}
		req = ReviewRequest{
			ProductID:   r.FormValue("product_id"),
			Text:        r.FormValue("text"),
			Rating:      rating,
			AuthorName:  r.FormValue("author_name"),
			AuthorEmail: r.FormValue("author_email"),
		}
		input.Pictures, err = formPictures(r)
		if err != nil {
			return nil, err
		}
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, apperrors.InvalidInput("malformed JSON body")
		}
	default:
		return nil, apperrors.UnsupportedMedia("expected application/json or multipart/form-data")
	}

	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	input.ProductID = req.ProductID
	input.Text = req.Text
	input.Rating = req.Rating
	input.AuthorName = req.AuthorName
	input.AuthorEmail = req.AuthorEmail
	return input, nil
}

// parseUpdateInput reads a partial update from either a multipart form
// or a JSON body. Only fields present in the payload are carried over.
func (h *ReviewHandler) parseUpdateInput(r *http.Request) (*service.UpdateReviewInput, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.InvalidInput("missing or malformed Content-Type header")
	}

	var req UpdateReviewRequest
	input := &service.UpdateReviewInput{}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, apperrors.InvalidInput("malformed multipart form")
		}
		req.Text = formValue(r, "text")
		req.AuthorName = formValue(r, "author_name")
		req.AuthorEmail = formValue(r, "author_email")
		if raw := formValue(r, "rating"); raw != nil {
			rating, err := strconv.Atoi(*raw)
			if err != nil {
				return nil, apperrors.InvalidInput("rating must be an integer")
			}
			req.Rating = &rating
		}
		input.Pictures, err = formPictures(r)
		if err != nil {
			return nil, err
		}
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, apperrors.InvalidInput("malformed JSON body")
		}
	default:
		return nil, apperrors.UnsupportedMedia("expected application/json or multipart/form-data")
	}

	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	input.Text = req.Text
	input.Rating = req.Rating
	input.AuthorName = req.AuthorName
	input.AuthorEmail = req.AuthorEmail
	return input, nil
}

// formValue returns a multipart form field only when the field was
// actually sent, so an absent field stays distinguishable from "".
func formValue(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	if vals, ok := r.MultipartForm.Value[name]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}

// formPictures opens every file attached under the "pictures" field.
func formPictures(r *http.Request) ([]storage.UploadInput, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var pictures []storage.UploadInput
	for _, header := range r.MultipartForm.File["pictures"] {
		file, err := header.Open()
		if err != nil {
			return nil, apperrors.InvalidInput("unreadable picture attachment")
		}
		pictures = append(pictures, storage.UploadInput{
			Filename: header.Filename,
			Content:  file,
			Size:     header.Size,
		})
	}
	return pictures, nil
}

func closePictures(pictures []storage.UploadInput) {
	for _, pic := range pictures {
		if closer, ok := pic.Content.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
}

// CreateReview handles POST /api/v1/reviews
// @Summary Create a review
// @Description Accepts JSON or multipart form data; attached pictures are uploaded and their URLs recorded on the review
// @Tags reviews
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 415 {object} map[string]interface{}
// @Router /api/v1/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseReviewInput(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	defer closePictures(input.Pictures)

	review, err := h.service.CreateReview(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// UpdateReview handles PUT /api/v1/reviews/{id}
// @Summary Partially update a review
// @Description Applies only the fields present in the payload; omitted fields keep their stored values
// @Tags reviews
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Review id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	input, err := h.parseUpdateInput(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	defer closePictures(input.Pictures)

	review, err := h.service.UpdateReview(r.Context(), id, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// DeleteReview handles DELETE /api/v1/reviews/{id}
// @Summary Delete a review
// @Tags reviews
// @Param id path string true "Review id"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteReview(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ThumbsUp handles POST /api/v1/reviews/{id}/thumbs-up
// @Summary Increment a review's thumbs-up counter
// @Tags reviews
// @Produce json
// @Param id path string true "Review id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews/{id}/thumbs-up [post]
func (h *ReviewHandler) ThumbsUp(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.ThumbsUp(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// ThumbsDown handles POST /api/v1/reviews/{id}/thumbs-down
// @Summary Increment a review's thumbs-down counter
// @Tags reviews
// @Produce json
// @Param id path string true "Review id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews/{id}/thumbs-down [post]
func (h *ReviewHandler) ThumbsDown(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.ThumbsDown(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}
