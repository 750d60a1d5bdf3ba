package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusmess/messreview/internal/auth"
	"github.com/campusmess/messreview/internal/service"
	"github.com/campusmess/messreview/pkg/health"
	"github.com/campusmess/messreview/pkg/middleware"
)

// NewRouter creates a chi router with all mess review routes registered.
// Catalog and feed reads are public; writes require a valid token, and the
// admin-only operations are enforced in the service layer.
func NewRouter(
	ratingService *service.RatingService,
	complaintService *service.ComplaintService,
	outletService *service.OutletService,
	jwtManager *auth.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("messreview"))
	r.Use(middleware.Tracing("messreview"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	ratingHandler := NewRatingHandler(ratingService, logger)
	complaintHandler := NewComplaintHandler(complaintService, logger)
	outletHandler := NewOutletHandler(outletService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public reads. A token is honored when present but not required.
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(jwtManager, false))

			r.Get("/outlets", outletHandler.ListOutlets)
			r.Get("/outlets/{id}", outletHandler.GetOutlet)
			r.Get("/outlets/{id}/reviews", ratingHandler.ListOutletReviews)
			r.Get("/outlets/{id}/ratings", ratingHandler.ListOutletRatings)
			r.Get("/food-items/{id}/ratings", ratingHandler.ListFoodItemRatings)
		})

		// Authenticated operations.
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(jwtManager, true))

			r.Post("/ratings", ratingHandler.SubmitRating)
			r.Delete("/ratings/{id}", ratingHandler.DeleteRating)
			r.Post("/targets/{id}/recompute", ratingHandler.RecomputeTarget)

			r.Post("/complaints", complaintHandler.CreateComplaint)
			r.Get("/complaints", complaintHandler.ListComplaints)
			r.Post("/complaints/{id}/resolve", complaintHandler.ResolveComplaint)
			r.Delete("/complaints/{id}", complaintHandler.DeleteComplaint)
			r.Get("/outlets/{id}/complaints", complaintHandler.ListOutletComplaints)
		})
	})

	return r
}
