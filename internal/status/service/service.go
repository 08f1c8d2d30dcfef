// Package service implements the status catalog operations.
package service

import (
	"context"
	"errors"
	"strings"

	"mobiliza/internal/status/models"
	"mobiliza/internal/status/store"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/platform/sentinel"
	"mobiliza/pkg/requestcontext"
)

// Service manages the status catalog. Statuses can be created and listed but
// never removed: the history ledger references them indefinitely.
type Service struct {
	store store.Store
}

// NewService creates a status catalog service.
func NewService(store store.Store) *Service {
	return &Service{store: store}
}

// Normalize canonicalizes a status name. Names are stored uppercase so
// lookups are not case-sensitive.
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Create adds a new status to the catalog.
func (s *Service) Create(ctx context.Context, name, description string) (*models.Status, error) {
	name = Normalize(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "status name is required")
	}

	status := &models.Status{
		ID:          id.NewStatusID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, status); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "status already exists: "+name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create status")
	}
	return status, nil
}

// List returns all statuses ordered by name.
func (s *Service) List(ctx context.Context) ([]*models.Status, error) {
	statuses, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list statuses")
	}
	return statuses, nil
}

// GetByName resolves a status by its canonical name.
func (s *Service) GetByName(ctx context.Context, name string) (*models.Status, error) {
	status, err := s.store.GetByName(ctx, Normalize(name))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "status not found: "+Normalize(name))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load status")
	}
	return status, nil
}

// GetByID resolves a status by ID.
func (s *Service) GetByID(ctx context.Context, statusID id.StatusID) (*models.Status, error) {
	status, err := s.store.GetByID(ctx, statusID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "status not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load status")
	}
	return status, nil
}

// Seed ensures the given status names exist, creating any that are missing.
// Called at startup so the default and invite statuses are always resolvable.
func (s *Service) Seed(ctx context.Context, names ...string) error {
	for _, name := range names {
		_, err := s.Create(ctx, name, "")
		if err != nil && !dErrors.HasCode(err, dErrors.CodeConflict) {
			return err
		}
	}
	return nil
}
