package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mobiliza/internal/platform/middleware"
	"mobiliza/internal/volunteer/models"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/email"
	"mobiliza/pkg/platform/httputil"
)

// editLinkSentMessage is returned whether or not the email matched a
// volunteer, so the endpoint cannot be used to probe registered addresses.
const editLinkSentMessage = "Link de edição enviado para o e-mail."

type publicFeedbackResponse struct {
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// publicProfileResponse is the anonymized read: the email is masked and the
// phone never appears.
type publicProfileResponse struct {
	ID                 string                   `json:"id"`
	Name               string                   `json:"name"`
	Email              string                   `json:"email"`
	Discord            string                   `json:"discord,omitempty"`
	Linkedin           string                   `json:"linkedin,omitempty"`
	Github             string                   `json:"github,omitempty"`
	Status             string                   `json:"status"`
	IsApoiaseSupporter bool                     `json:"is_apoiase_supporter"`
	Feedbacks          []publicFeedbackResponse `json:"feedbacks"`
	CreatedAt          time.Time                `json:"created_at"`
}

type editViewResponse struct {
	Name            string   `json:"name"`
	Phone           string   `json:"phone"`
	Discord         string   `json:"discord"`
	Linkedin        string   `json:"linkedin"`
	Github          string   `json:"github"`
	VolunteerTypeID string   `json:"volunteer_type_id,omitempty"`
	VerticalIDs     []string `json:"vertical_ids"`
}

func toEditViewResponse(v *models.Volunteer) editViewResponse {
	resp := editViewResponse{
		Name:        v.Name,
		Phone:       v.Phone,
		Discord:     v.Discord,
		Linkedin:    v.Linkedin,
		Github:      v.Github,
		VerticalIDs: make([]string, 0, len(v.VerticalIDs)),
	}
	if v.VolunteerTypeID != nil {
		resp.VolunteerTypeID = v.VolunteerTypeID.String()
	}
	for _, verticalID := range v.VerticalIDs {
		resp.VerticalIDs = append(resp.VerticalIDs, verticalID.String())
	}
	return resp
}

func (h *Handler) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
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
	status, err := h.statuses.GetByID(ctx, volunteer.StatusID)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to resolve status")
		return
	}
	entries, err := h.feedbacks.ListForVolunteer(ctx, volunteerID)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to load feedback")
		return
	}

	resp := publicProfileResponse{
		ID:                 volunteer.ID.String(),
		Name:               volunteer.Name,
		Email:              email.Mask(volunteer.Email),
		Discord:            volunteer.Discord,
		Linkedin:           volunteer.Linkedin,
		Github:             volunteer.Github,
		Status:             status.Name,
		IsApoiaseSupporter: volunteer.IsApoiaseSupporter,
		Feedbacks:          make([]publicFeedbackResponse, 0, len(entries)),
		CreatedAt:          volunteer.CreatedAt,
	}
	for _, entry := range entries {
		resp.Feedbacks = append(resp.Feedbacks, publicFeedbackResponse{
			Content:    entry.Content,
			AuthorName: entry.AuthorName,
			CreatedAt:  entry.CreatedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRequestEditLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestEditLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid email"))
		return
	}

	if _, err := h.service.RequestEditLink(ctx, req.Email); err != nil {
		// An unknown email gets the same success response as a known one.
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.writeErr(ctx, w, err, "failed to issue edit link")
			return
		}
		h.logger.InfoContext(ctx, "edit link requested for unknown email",
			"request_id", middleware.GetRequestID(ctx),
		)
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": editLinkSentMessage})
}

func (h *Handler) handleEditView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	volunteer, err := h.service.ValidateEditToken(ctx, chi.URLParam(r, "token"))
	if err != nil {
		h.writeErr(ctx, w, err, "failed to validate edit token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toEditViewResponse(volunteer))
}

func (h *Handler) handleApplyEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req applyEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	volunteer, err := h.service.ApplyEdit(ctx, chi.URLParam(r, "token"), patch)
	if err != nil {
		h.writeErr(ctx, w, err, "failed to apply edit")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toEditViewResponse(volunteer))
}
