// Package handler exposes the status catalog over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mobiliza/internal/platform/middleware"
	"mobiliza/internal/status/models"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/platform/httputil"
)

// Service defines the interface for status catalog operations.
type Service interface {
	Create(ctx context.Context, name, description string) (*models.Status, error)
	List(ctx context.Context) ([]*models.Status, error)
}

// Handler handles status catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a status Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the status routes. The router passed in is expected to
// already require operator authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/statuses", h.handleList)
	r.Post("/statuses", h.handleCreate)
}

type createStatusRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type statusResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toStatusResponse(status *models.Status) statusResponse {
	return statusResponse{
		ID:          status.ID.String(),
		Name:        status.Name,
		Description: status.Description,
		CreatedAt:   status.CreatedAt,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	status, err := h.service.Create(ctx, req.Name, req.Description)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to create status",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toStatusResponse(status))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	statuses, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list statuses",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]statusResponse, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, toStatusResponse(status))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
