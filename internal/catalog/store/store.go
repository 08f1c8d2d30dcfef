// Package store persists the organizational catalog.
package store

import (
	"context"

	"mobiliza/internal/catalog/models"
	id "mobiliza/pkg/domain"
)

// Store persists catalog entities. Implementations return
// sentinel.ErrNotFound for missing entries and sentinel.ErrConflict for
// duplicate names.
type Store interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)

	CreateSquad(ctx context.Context, squad *models.Squad) error
	GetSquad(ctx context.Context, squadID id.SquadID) (*models.Squad, error)
	ListSquads(ctx context.Context) ([]*models.Squad, error)

	CreateVolunteerType(ctx context.Context, vtype *models.VolunteerType) error
	GetVolunteerType(ctx context.Context, typeID id.VolunteerTypeID) (*models.VolunteerType, error)
	ListVolunteerTypes(ctx context.Context) ([]*models.VolunteerType, error)

	CreateVertical(ctx context.Context, vertical *models.Vertical) error
	GetVertical(ctx context.Context, verticalID id.VerticalID) (*models.Vertical, error)
	ListVerticals(ctx context.Context) ([]*models.Vertical, error)
}
