// Package handler exposes volunteer feedback over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mobiliza/internal/feedback/models"
	"mobiliza/internal/feedback/service"
	"mobiliza/internal/platform/middleware"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/platform/httputil"
)

// Service defines the interface for feedback operations.
type Service interface {
	Create(ctx context.Context, volunteerID id.VolunteerID, content string) (*models.Feedback, error)
	ListForVolunteer(ctx context.Context, volunteerID id.VolunteerID) ([]service.Entry, error)
}

// Handler handles feedback endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a feedback Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the feedback routes. The router passed in is expected to
// already require operator authentication.
func (h *Handler) Register(r chi.Router) {
	r.Post("/volunteers/{id}/feedback", h.handleCreate)
	r.Get("/volunteers/{id}/feedback", h.handleList)
}

type createFeedbackRequest struct {
	Content string `json:"content"`
}

type feedbackResponse struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	volunteerID, err := id.ParseVolunteerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req createFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	feedback, err := h.service.Create(ctx, volunteerID, req.Content)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to create feedback",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"id":      feedback.ID.String(),
		"content": feedback.Content,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	volunteerID, err := id.ParseVolunteerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.service.ListForVolunteer(ctx, volunteerID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to list feedback",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	out := make([]feedbackResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, feedbackResponse{
			ID:          entry.ID.String(),
			Content:     entry.Content,
			AuthorName:  entry.AuthorName,
			AuthorEmail: entry.AuthorEmail,
			CreatedAt:   entry.CreatedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
