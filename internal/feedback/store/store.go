// Package store persists volunteer feedback.
package store

import (
	"context"

	"mobiliza/internal/feedback/models"
	id "mobiliza/pkg/domain"
)

// Store defines feedback persistence.
type Store interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListForVolunteer(ctx context.Context, volunteerID id.VolunteerID) ([]*models.Feedback, error)
}
