// Package store persists operator accounts.
package store

import (
	"context"

	"mobiliza/internal/auth/models"
	id "mobiliza/pkg/domain"
)

// Store defines operator account persistence. Implementations return
// sentinel.ErrNotFound for missing users and sentinel.ErrConflict for
// duplicate emails.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID id.UserID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
