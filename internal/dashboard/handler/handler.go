// Package handler exposes the operator dashboard over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mobiliza/internal/dashboard/service"
	"mobiliza/internal/platform/middleware"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/platform/httputil"
)

// Service defines the interface for dashboard operations.
type Service interface {
	Stats(ctx context.Context) (*service.Stats, error)
}

// Handler handles dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a dashboard Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the dashboard routes. The router passed in is expected
// to already require operator authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard/stats", h.handleStats)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to aggregate dashboard stats",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
