package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/internal/service"
	"github.com/campusmess/messreview/pkg/httputil"
	"github.com/campusmess/messreview/pkg/validator"
)

// ComplaintHandler handles HTTP requests for complaint endpoints.
type ComplaintHandler struct {
	service *service.ComplaintService
	logger  *slog.Logger
}

// NewComplaintHandler creates a new complaint HTTP handler.
func NewComplaintHandler(svc *service.ComplaintService, logger *slog.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateComplaintRequest is the JSON request body for filing a complaint.
type CreateComplaintRequest struct {
	OutletID  string `json:"outlet_id" validate:"required,uuid"`
	Text      string `json:"text" validate:"required"`
	Anonymous bool   `json:"anonymous"`
}

// --- Handlers ---

// CreateComplaint handles POST /api/v1/complaints
func (h *ComplaintHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateComplaintRequest
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

	complaint, err := h.service.Create(r.Context(), ActorFromContext(r.Context()), service.CreateComplaintInput{
		OutletID:  req.OutletID,
		Text:      req.Text,
		Anonymous: req.Anonymous,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: complaint})
}

// ResolveComplaint handles POST /api/v1/complaints/{id}/resolve
func (h *ComplaintHandler) ResolveComplaint(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	complaint, err := h.service.Resolve(r.Context(), ActorFromContext(r.Context()), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: complaint})
}

// DeleteComplaint handles DELETE /api/v1/complaints/{id}
func (h *ComplaintHandler) DeleteComplaint(w http.ResponseWriter, r *http.Request) {
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

// ListComplaints handles GET /api/v1/complaints
func (h *ComplaintHandler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	statusFilter := domain.StatusFilterAll
	if v := r.URL.Query().Get("status"); v != "" {
		statusFilter = strings.ToUpper(v)
	}
	groupBy := domain.GroupByNone
	if v := r.URL.Query().Get("group_by"); v != "" {
		groupBy = strings.ToUpper(v)
	}

	listing, err := h.service.List(r.Context(), ActorFromContext(r.Context()), statusFilter, groupBy)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: listing})
}

// ListOutletComplaints handles GET /api/v1/outlets/{id}/complaints
func (h *ComplaintHandler) ListOutletComplaints(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	complaints, err := h.service.ListByOutlet(r.Context(), ActorFromContext(r.Context()), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: complaints})
}
