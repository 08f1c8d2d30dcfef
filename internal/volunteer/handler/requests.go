package handler

import (
	"github.com/go-playground/validator/v10"

	"mobiliza/internal/volunteer/models"
	"mobiliza/internal/volunteer/service"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
)

var validate = validator.New()

type registerRequest struct {
	Name            string   `json:"name" validate:"required,min=2"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone"`
	Discord         string   `json:"discord"`
	Linkedin        string   `json:"linkedin"`
	Github          string   `json:"github"`
	VolunteerTypeID string   `json:"volunteer_type_id" validate:"omitempty,uuid"`
	VerticalIDs     []string `json:"vertical_ids" validate:"omitempty,dive,uuid"`
}

func (req registerRequest) toInput() (service.RegisterInput, error) {
	if err := validate.Struct(req); err != nil {
		return service.RegisterInput{}, dErrors.New(dErrors.CodeValidation, "invalid registration payload")
	}

	input := service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Discord:  req.Discord,
		Linkedin: req.Linkedin,
		Github:   req.Github,
	}
	if req.VolunteerTypeID != "" {
		typeID, err := id.ParseVolunteerTypeID(req.VolunteerTypeID)
		if err != nil {
			return service.RegisterInput{}, err
		}
		input.VolunteerTypeID = &typeID
	}
	verticalIDs, err := parseVerticalIDs(req.VerticalIDs)
	if err != nil {
		return service.RegisterInput{}, err
	}
	input.VerticalIDs = verticalIDs
	return input, nil
}

type requestEditLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// applyEditRequest mirrors the patch semantics: name and linkedin only
// overwrite when non-empty, the contact pointers distinguish "absent" from
// "clear me", and a present vertical_ids array replaces the current set.
type applyEditRequest struct {
	Name            string    `json:"name" validate:"omitempty,min=2"`
	Linkedin        string    `json:"linkedin"`
	Phone           *string   `json:"phone"`
	Discord         *string   `json:"discord"`
	Github          *string   `json:"github"`
	VolunteerTypeID string    `json:"volunteer_type_id" validate:"omitempty,uuid"`
	VerticalIDs     *[]string `json:"vertical_ids" validate:"omitempty,dive,uuid"`
}

func (req applyEditRequest) toPatch() (models.EditPatch, error) {
	if err := validate.Struct(req); err != nil {
		return models.EditPatch{}, dErrors.New(dErrors.CodeValidation, "invalid edit payload")
	}

	patch := models.EditPatch{
		Name:     req.Name,
		Linkedin: req.Linkedin,
		Phone:    req.Phone,
		Discord:  req.Discord,
		Github:   req.Github,
	}
	if req.VolunteerTypeID != "" {
		typeID, err := id.ParseVolunteerTypeID(req.VolunteerTypeID)
		if err != nil {
			return models.EditPatch{}, err
		}
		patch.VolunteerTypeID = &typeID
	}
	if req.VerticalIDs != nil {
		verticalIDs, err := parseVerticalIDs(*req.VerticalIDs)
		if err != nil {
			return models.EditPatch{}, err
		}
		if verticalIDs == nil {
			verticalIDs = []id.VerticalID{}
		}
		patch.VerticalIDs = verticalIDs
	}
	return patch, nil
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type assignRequest struct {
	SquadID         string `json:"squad_id" validate:"omitempty,uuid"`
	VolunteerTypeID string `json:"volunteer_type_id" validate:"omitempty,uuid"`
}

func (req assignRequest) toInput() (service.AssignInput, error) {
	if err := validate.Struct(req); err != nil {
		return service.AssignInput{}, dErrors.New(dErrors.CodeValidation, "invalid assignment payload")
	}

	var input service.AssignInput
	if req.SquadID != "" {
		squadID, err := id.ParseSquadID(req.SquadID)
		if err != nil {
			return service.AssignInput{}, err
		}
		input.SquadID = &squadID
	}
	if req.VolunteerTypeID != "" {
		typeID, err := id.ParseVolunteerTypeID(req.VolunteerTypeID)
		if err != nil {
			return service.AssignInput{}, err
		}
		input.VolunteerTypeID = &typeID
	}
	return input, nil
}

func parseVerticalIDs(raw []string) ([]id.VerticalID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]id.VerticalID, 0, len(raw))
	for _, rawID := range raw {
		verticalID, err := id.ParseVerticalID(rawID)
		if err != nil {
			return nil, err
		}
		out = append(out, verticalID)
	}
	return out, nil
}
