package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/internal/service"
	"github.com/campusmess/messreview/pkg/httputil"
	"github.com/campusmess/messreview/pkg/validator"
)

// RatingHandler handles HTTP requests for rating endpoints.
type RatingHandler struct {
	service *service.RatingService
	logger  *slog.Logger
}

// NewRatingHandler creates a new rating HTTP handler.
func NewRatingHandler(svc *service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SubmitRatingRequest is the JSON request body for submitting a rating.
type SubmitRatingRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=OUTLET FOOD_ITEM"`
	TargetID   string `json:"target_id" validate:"required,uuid"`
	Stars      int    `json:"stars" validate:"required,gte=1,lte=5"`
	ReviewText string `json:"review_text"`
	Anonymous  bool   `json:"anonymous"`
}

// --- Handlers ---

// SubmitRating handles POST /api/v1/ratings
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rating, err := h.service.Submit(r.Context(), ActorFromContext(r.Context()), service.SubmitRatingInput{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Stars:      req.Stars,
		ReviewText: req.ReviewText,
		Anonymous:  req.Anonymous,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: rating})
}

// DeleteRating handles DELETE /api/v1/ratings/{id}
func (h *RatingHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ActorFromContext(r.Context()), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListOutletReviews handles GET /api/v1/outlets/{id}/reviews
func (h *RatingHandler) ListOutletReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	reviews, err := h.service.ListOutletReviews(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// ListOutletRatings handles GET /api/v1/outlets/{id}/ratings
func (h *RatingHandler) ListOutletRatings(w http.ResponseWriter, r *http.Request) {
	h.listTargetRatings(w, r, domain.TargetTypeOutlet)
}

// ListFoodItemRatings handles GET /api/v1/food-items/{id}/ratings
func (h *RatingHandler) ListFoodItemRatings(w http.ResponseWriter, r *http.Request) {
	h.listTargetRatings(w, r, domain.TargetTypeFoodItem)
}

func (h *RatingHandler) listTargetRatings(w http.ResponseWriter, r *http.Request, targetType string) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ratings, err := h.service.ListTargetRatings(r.Context(), id.String(), targetType)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ratings})
}

// RecomputeTarget handles POST /api/v1/targets/{id}/recompute
func (h *RatingHandler) RecomputeTarget(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	summary, err := h.service.RepairAggregate(r.Context(), ActorFromContext(r.Context()), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
