// Package service implements the organizational catalog operations.
package service

import (
	"context"
	"errors"
	"strings"

	"mobiliza/internal/catalog/models"
	"mobiliza/internal/catalog/store"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/platform/sentinel"
	"mobiliza/pkg/requestcontext"
)

// Service manages projects, squads, volunteer types, and verticals.
type Service struct {
	store store.Store
}

// NewService creates a catalog service.
func NewService(store store.Store) *Service {
	return &Service{store: store}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return name, nil
}

func mapCreateErr(err error, what string) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, what+" already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create "+what)
}

// CreateProject adds a project.
func (s *Service) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	project := &models.Project{
		ID:        id.NewProjectID(),
		Name:      name,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, mapCreateErr(err, "project")
	}
	return project, nil
}

// ListProjects returns all projects ordered by name.
func (s *Service) ListProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	return projects, nil
}

// CreateSquad adds a squad, optionally linked to a project.
func (s *Service) CreateSquad(ctx context.Context, name string, projectID *id.ProjectID) (*models.Squad, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if projectID != nil {
		if _, err := s.store.GetProject(ctx, *projectID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeValidation, "project not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve project")
		}
	}
	squad := &models.Squad{
		ID:        id.NewSquadID(),
		Name:      name,
		ProjectID: projectID,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.CreateSquad(ctx, squad); err != nil {
		return nil, mapCreateErr(err, "squad")
	}
	return squad, nil
}

// GetSquad resolves a squad by ID.
func (s *Service) GetSquad(ctx context.Context, squadID id.SquadID) (*models.Squad, error) {
	squad, err := s.store.GetSquad(ctx, squadID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "squad not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load squad")
	}
	return squad, nil
}

// ListSquads returns all squads ordered by name.
func (s *Service) ListSquads(ctx context.Context) ([]*models.Squad, error) {
	squads, err := s.store.ListSquads(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list squads")
	}
	return squads, nil
}

// CreateVolunteerType adds a volunteer type.
func (s *Service) CreateVolunteerType(ctx context.Context, name string) (*models.VolunteerType, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	vtype := &models.VolunteerType{
		ID:        id.NewVolunteerTypeID(),
		Name:      name,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.CreateVolunteerType(ctx, vtype); err != nil {
		return nil, mapCreateErr(err, "volunteer type")
	}
	return vtype, nil
}

// GetVolunteerType resolves a volunteer type by ID.
func (s *Service) GetVolunteerType(ctx context.Context, typeID id.VolunteerTypeID) (*models.VolunteerType, error) {
	vtype, err := s.store.GetVolunteerType(ctx, typeID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "volunteer type not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load volunteer type")
	}
	return vtype, nil
}

// ListVolunteerTypes returns all volunteer types ordered by name.
func (s *Service) ListVolunteerTypes(ctx context.Context) ([]*models.VolunteerType, error) {
	vtypes, err := s.store.ListVolunteerTypes(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list volunteer types")
	}
	return vtypes, nil
}

// CreateVertical adds a vertical.
func (s *Service) CreateVertical(ctx context.Context, name string) (*models.Vertical, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	vertical := &models.Vertical{
		ID:        id.NewVerticalID(),
		Name:      name,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.CreateVertical(ctx, vertical); err != nil {
		return nil, mapCreateErr(err, "vertical")
	}
	return vertical, nil
}

// ListVerticals returns all verticals ordered by name.
func (s *Service) ListVerticals(ctx context.Context) ([]*models.Vertical, error) {
	verticals, err := s.store.ListVerticals(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verticals")
	}
	return verticals, nil
}

// ResolveVerticals validates that every ID references an existing vertical and
// returns them in the order given.
func (s *Service) ResolveVerticals(ctx context.Context, ids []id.VerticalID) ([]*models.Vertical, error) {
	out := make([]*models.Vertical, 0, len(ids))
	for _, verticalID := range ids {
		vertical, err := s.store.GetVertical(ctx, verticalID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "vertical not found: "+verticalID.String())
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve vertical")
		}
		out = append(out, vertical)
	}
	return out, nil
}
