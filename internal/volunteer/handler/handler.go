// Package handler exposes the volunteer lifecycle over HTTP. Public routes
// cover intake, the public profile, and the token-gated edit flow; operator
// routes cover listing, detail with history, status transitions, and
// assignment.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	feedbackservice "mobiliza/internal/feedback/service"
	"mobiliza/internal/platform/middleware"
	statusmodels "mobiliza/internal/status/models"
	"mobiliza/internal/volunteer/models"
	"mobiliza/internal/volunteer/service"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/platform/httputil"
)

// Service defines the interface for volunteer lifecycle operations.
type Service interface {
	Register(ctx context.Context, input service.RegisterInput) (*models.Volunteer, error)
	Get(ctx context.Context, volunteerID id.VolunteerID) (*models.Volunteer, error)
	List(ctx context.Context, statusName string, squadID *id.SquadID) ([]*models.Volunteer, error)
	History(ctx context.Context, volunteerID id.VolunteerID) ([]service.HistoryEntry, error)
	Transition(ctx context.Context, volunteerID id.VolunteerID, statusName string) (*models.Volunteer, error)
	Assign(ctx context.Context, volunteerID id.VolunteerID, input service.AssignInput) (*models.Volunteer, error)
	RequestEditLink(ctx context.Context, email string) (*models.Volunteer, error)
	ValidateEditToken(ctx context.Context, token string) (*models.Volunteer, error)
	ApplyEdit(ctx context.Context, token string, patch models.EditPatch) (*models.Volunteer, error)
}

// Statuses resolves status IDs to catalog entries for display.
type Statuses interface {
	GetByID(ctx context.Context, statusID id.StatusID) (*statusmodels.Status, error)
}

// Feedbacks lists resolved feedback entries for the public profile.
type Feedbacks interface {
	ListForVolunteer(ctx context.Context, volunteerID id.VolunteerID) ([]feedbackservice.Entry, error)
}

// Handler handles volunteer endpoints.
type Handler struct {
	logger    *slog.Logger
	service   Service
	statuses  Statuses
	feedbacks Feedbacks
}

// New creates a volunteer Handler.
func New(service Service, statuses Statuses, feedbacks Feedbacks, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		statuses:  statuses,
		feedbacks: feedbacks,
	}
}

// RegisterPublic registers the unauthenticated routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/volunteer", h.handleRegister)
	r.Get("/volunteers/{id}/public", h.handlePublicProfile)
	r.Post("/volunteers/request-edit-link", h.handleRequestEditLink)
	r.Get("/volunteers/edit/{token}", h.handleEditView)
	r.Patch("/volunteers/edit/{token}", h.handleApplyEdit)
}

// Register registers the operator routes. The router passed in is expected to
// already require operator authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/volunteers", h.handleList)
	r.Get("/volunteers/{id}", h.handleGet)
	r.Patch("/volunteers/{id}", h.handleAssign)
	r.Patch("/volunteers/{id}/status", h.handleTransition)
}

func (h *Handler) writeErr(ctx context.Context, w http.ResponseWriter, err error, op string) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, op,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}

func (h *Handler) statusName(ctx context.Context, cache map[id.StatusID]string, statusID id.StatusID) (string, error) {
	if name, ok := cache[statusID]; ok {
		return name, nil
	}
	status, err := h.statuses.GetByID(ctx, statusID)
	if err != nil {
		return "", err
	}
	cache[statusID] = status.Name
	return status.Name, nil
}

type volunteerResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	Discord            string    `json:"discord,omitempty"`
	Linkedin           string    `json:"linkedin,omitempty"`
	Github             string    `json:"github,omitempty"`
	Status             string    `json:"status"`
	VolunteerTypeID    string    `json:"volunteer_type_id,omitempty"`
	SquadID            string    `json:"squad_id,omitempty"`
	VerticalIDs        []string  `json:"vertical_ids,omitempty"`
	IsApoiaseSupporter bool      `json:"is_apoiase_supporter"`
	DiscordInviteSent  bool      `json:"discord_invite_sent"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toVolunteerResponse(v *models.Volunteer, statusName string) volunteerResponse {
	resp := volunteerResponse{
		ID:                 v.ID.String(),
		Name:               v.Name,
		Email:              v.Email,
		Phone:              v.Phone,
		Discord:            v.Discord,
		Linkedin:           v.Linkedin,
		Github:             v.Github,
		Status:             statusName,
		IsApoiaseSupporter: v.IsApoiaseSupporter,
		DiscordInviteSent:  v.DiscordInviteSent,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
	if v.VolunteerTypeID != nil {
		resp.VolunteerTypeID = v.VolunteerTypeID.String()
	}
	if v.SquadID != nil {
		resp.SquadID = v.SquadID.String()
	}
	for _, verticalID := range v.VerticalIDs {
		resp.VerticalIDs = append(resp.VerticalIDs, verticalID.String())
	}
	return resp
}

type historyEntryResponse struct {
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type volunteerDetailResponse struct {
	volunteerResponse
	History []historyEntryResponse `json:"history"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	volunteer, err := h.service.Register(ctx, input)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to register volunteer")
		return
	}

	status, err := h.statuses.GetByID(ctx, volunteer.StatusID)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to resolve status")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toVolunteerResponse(volunteer, status.Name))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var squadID *id.SquadID
	if raw := r.URL.Query().Get("squad_id"); raw != "" {
		parsed, err := id.ParseSquadID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		squadID = &parsed
	}

	volunteers, err := h.service.List(ctx, r.URL.Query().Get("status"), squadID)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to list volunteers")
		return
	}

	names := make(map[id.StatusID]string)
	out := make([]volunteerResponse, 0, len(volunteers))
	for _, volunteer := range volunteers {
		name, err := h.statusName(ctx, names, volunteer.StatusID)
		if err != nil {
			h.writeErr(ctx, w, err, "failed to resolve status")
			return
		}
		out = append(out, toVolunteerResponse(volunteer, name))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	volunteerID, err := id.ParseVolunteerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	volunteer, err := h.service.Get(ctx, volunteerID)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to load volunteer")
		return
	}
	history, err := h.service.History(ctx, volunteerID)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to load history")
		return
	}
	status, err := h.statuses.GetByID(ctx, volunteer.StatusID)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to resolve status")
		return
	}

	resp := volunteerDetailResponse{
		volunteerResponse: toVolunteerResponse(volunteer, status.Name),
		History:           make([]historyEntryResponse, 0, len(history)),
	}
	for _, entry := range history {
		resp.History = append(resp.History, historyEntryResponse{
			Status:    entry.StatusName,
			CreatedAt: entry.CreatedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	volunteerID, err := id.ParseVolunteerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "status is required"))
		return
	}

	volunteer, err := h.service.Transition(ctx, volunteerID, req.Status)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to transition volunteer")
		return
	}

	status, err := h.statuses.GetByID(ctx, volunteer.StatusID)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to resolve status")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVolunteerResponse(volunteer, status.Name))
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	volunteerID, err := id.ParseVolunteerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	volunteer, err := h.service.Assign(ctx, volunteerID, input)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to assign volunteer")
		return
	}

	status, err := h.statuses.GetByID(ctx, volunteer.StatusID)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to resolve status")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVolunteerResponse(volunteer, status.Name))
}
