package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aguevara193/reviews-api/internal/service"
	"github.com/aguevara193/reviews-api/pkg/health"
	"github.com/aguevara193/reviews-api/pkg/middleware"
)

// RouterConfig holds the cross-cutting settings the router needs.
type RouterConfig struct {
	ServiceName    string
	APIKey         string
	CORS           middleware.CORSConfig
	TracingEnabled bool
}

// NewRouter creates a chi router with all review routes registered.
func NewRouter(
	cfg RouterConfig,
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	if cfg.TracingEnabled {
		r.Use(middleware.Tracing(cfg.ServiceName))
	}
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	reviewHandler := NewReviewHandler(reviewService, logger)

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.APIKey))

		r.Get("/", reviewHandler.ListReviews)
		r.Get("/ratings", reviewHandler.GetRatings)
		r.Get("/pictures", reviewHandler.GetPictures)
		r.Get("/by-ids", reviewHandler.GetByIDs)

		r.Group(func(r chi.Router) {
			r.Use(AllowReviewPayload)

			r.Post("/", reviewHandler.CreateReview)
			r.Put("/{id}", reviewHandler.UpdateReview)
		})

		r.Delete("/{id}", reviewHandler.DeleteReview)
		r.Post("/{id}/thumbs-up", reviewHandler.ThumbsUp)
		r.Post("/{id}/thumbs-down", reviewHandler.ThumbsDown)
	})

	return r
}
