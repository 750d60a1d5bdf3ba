package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campusmess/messreview/internal/service"
	"github.com/campusmess/messreview/pkg/httputil"
)

// OutletHandler handles HTTP requests for the outlet catalog.
type OutletHandler struct {
	service *service.OutletService
	logger  *slog.Logger
}

// NewOutletHandler creates a new outlet HTTP handler.
func NewOutletHandler(svc *service.OutletService, logger *slog.Logger) *OutletHandler {
	return &OutletHandler{
		service: svc,
		logger:  logger,
	}
}

// ListOutlets handles GET /api/v1/outlets
func (h *OutletHandler) ListOutlets(w http.ResponseWriter, r *http.Request) {
	input := service.ListOutletsInput{
		OutletType:   strings.ToUpper(r.URL.Query().Get("type")),
		SortByRating: r.URL.Query().Get("sort") == "rating",
	}

	outlets, err := h.service.ListOutlets(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: outlets})
}

// GetOutlet handles GET /api/v1/outlets/{id}
func (h *OutletHandler) GetOutlet(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	detail, err := h.service.GetOutlet(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}
