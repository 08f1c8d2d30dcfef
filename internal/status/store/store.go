// Package store persists the status catalog.
package store

import (
	"context"

	"mobiliza/internal/status/models"
	id "mobiliza/pkg/domain"
)

// Store persists status catalog entries. Implementations return
// sentinel.ErrNotFound for missing entries and sentinel.ErrConflict for
// duplicate names.
type Store interface {
	Create(ctx context.Context, status *models.Status) error
	GetByID(ctx context.Context, statusID id.StatusID) (*models.Status, error)
	GetByName(ctx context.Context, name string) (*models.Status, error)
	List(ctx context.Context) ([]*models.Status, error)
}
