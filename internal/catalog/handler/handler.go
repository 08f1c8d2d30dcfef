// Package handler exposes the organizational catalog over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mobiliza/internal/catalog/models"
	"mobiliza/internal/platform/middleware"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/platform/httputil"
)

// Service defines the interface for catalog operations.
type Service interface {
	CreateProject(ctx context.Context, name string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	CreateSquad(ctx context.Context, name string, projectID *id.ProjectID) (*models.Squad, error)
	ListSquads(ctx context.Context) ([]*models.Squad, error)
	CreateVolunteerType(ctx context.Context, name string) (*models.VolunteerType, error)
	ListVolunteerTypes(ctx context.Context) ([]*models.VolunteerType, error)
	CreateVertical(ctx context.Context, name string) (*models.Vertical, error)
	ListVerticals(ctx context.Context) ([]*models.Vertical, error)
}

// Handler handles catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a catalog Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the catalog routes. The router passed in is expected to
// already require operator authentication.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects", h.handleCreateProject)
	r.Get("/projects", h.handleListProjects)
	r.Post("/squads", h.handleCreateSquad)
	r.Get("/squads", h.handleListSquads)
	r.Post("/volunteer-types", h.handleCreateVolunteerType)
	r.Get("/volunteer-types", h.handleListVolunteerTypes)
	r.Post("/verticals", h.handleCreateVertical)
	r.Get("/verticals", h.handleListVerticals)
}

type createNamedRequest struct {
	Name string `json:"name"`
}

type createSquadRequest struct {
	Name      string `json:"name"`
	ProjectID string `json:"project_id,omitempty"`
}

type namedResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type squadResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ProjectID string    `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
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

func decodeNamed(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req createNamedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return "", false
	}
	return req.Name, true
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeNamed(w, r)
	if !ok {
		return
	}
	project, err := h.service.CreateProject(r.Context(), name)
	if err != nil {
		h.writeErr(r.Context(), w, err, "failed to create project")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, namedResponse{
		ID: project.ID.String(), Name: project.Name, CreatedAt: project.CreatedAt,
	})
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context())
	if err != nil {
		h.writeErr(r.Context(), w, err, "failed to list projects")
		return
	}
	out := make([]namedResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, namedResponse{ID: p.ID.String(), Name: p.Name, CreatedAt: p.CreatedAt})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreateSquad(w http.ResponseWriter, r *http.Request) {
	var req createSquadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	var projectID *id.ProjectID
	if req.ProjectID != "" {
		parsed, err := id.ParseProjectID(req.ProjectID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		projectID = &parsed
	}

	squad, err := h.service.CreateSquad(r.Context(), req.Name, projectID)
	if err != nil {
		h.writeErr(r.Context(), w, err, "failed to create squad")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toSquadResponse(squad))
}

func (h *Handler) handleListSquads(w http.ResponseWriter, r *http.Request) {
	squads, err := h.service.ListSquads(r.Context())
	if err != nil {
		h.writeErr(r.Context(), w, err, "failed to list squads")
		return
	}
	out := make([]squadResponse, 0, len(squads))
	for _, squad := range squads {
		out = append(out, toSquadResponse(squad))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func toSquadResponse(squad *models.Squad) squadResponse {
	resp := squadResponse{ID: squad.ID.String(), Name: squad.Name, CreatedAt: squad.CreatedAt}
	if squad.ProjectID != nil {
		resp.ProjectID = squad.ProjectID.String()
	}
	return resp
}

func (h *Handler) handleCreateVolunteerType(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeNamed(w, r)
	if !ok {
		return
	}
	vtype, err := h.service.CreateVolunteerType(r.Context(), name)
	if err != nil {
		h.writeErr(r.Context(), w, err, "failed to create volunteer type")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, namedResponse{
		ID: vtype.ID.String(), Name: vtype.Name, CreatedAt: vtype.CreatedAt,
	})
}

func (h *Handler) handleListVolunteerTypes(w http.ResponseWriter, r *http.Request) {
	vtypes, err := h.service.ListVolunteerTypes(r.Context())
	if err != nil {
		h.writeErr(r.Context(), w, err, "failed to list volunteer types")
		return
	}
	out := make([]namedResponse, 0, len(vtypes))
	for _, vt := range vtypes {
		out = append(out, namedResponse{ID: vt.ID.String(), Name: vt.Name, CreatedAt: vt.CreatedAt})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreateVertical(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeNamed(w, r)
	if !ok {
		return
	}
	vertical, err := h.service.CreateVertical(r.Context(), name)
	if err != nil {
		h.writeErr(r.Context(), w, err, "failed to create vertical")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, namedResponse{
		ID: vertical.ID.String(), Name: vertical.Name, CreatedAt: vertical.CreatedAt,
	})
}

func (h *Handler) handleListVerticals(w http.ResponseWriter, r *http.Request) {
	verticals, err := h.service.ListVerticals(r.Context())
	if err != nil {
		h.writeErr(r.Context(), w, err, "failed to list verticals")
		return
	}
	out := make([]namedResponse, 0, len(verticals))
	for _, v := range verticals {
		out = append(out, namedResponse{ID: v.ID.String(), Name: v.Name, CreatedAt: v.CreatedAt})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
