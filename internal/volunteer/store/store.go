// Package store persists volunteers and their status history.
package store

import (
	"context"
	"time"

	"mobiliza/internal/volunteer/models"
	id "mobiliza/pkg/domain"
)

// ListFilter narrows the operator volunteer listing.
type ListFilter struct {
	StatusID *id.StatusID
	SquadID  *id.SquadID
}

// Store persists the volunteer aggregate. Multi-step sequences (create with
// first history row, transition, Execute) are atomic per volunteer:
// concurrent calls against the same volunteer are serialized by the
// implementation (mutex in memory, row lock in postgres).
//
// Implementations return sentinel.ErrNotFound for missing volunteers and
// sentinel.ErrConflict for duplicate emails.
type Store interface {
	// Create inserts the volunteer together with its first history row.
	Create(ctx context.Context, volunteer *models.Volunteer, first *models.StatusHistory) error

	GetByID(ctx context.Context, volunteerID id.VolunteerID) (*models.Volunteer, error)
	GetByEmail(ctx context.Context, email string) (*models.Volunteer, error)
	GetByEditToken(ctx context.Context, token string) (*models.Volunteer, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Volunteer, error)

	// Transition atomically records a status change: no-op when the current
	// status already equals record.StatusID (changed=false, no history row),
	// otherwise inserts the history row and updates the volunteer. Returns
	// the volunteer as of after the call.
	Transition(ctx context.Context, volunteerID id.VolunteerID, record *models.StatusHistory) (*models.Volunteer, bool, error)

	// Execute runs apply against the current state of the volunteer under the
	// per-volunteer lock and persists the result when apply returns nil.
	Execute(ctx context.Context, volunteerID id.VolunteerID, apply func(*models.Volunteer) error) (*models.Volunteer, error)

	// SetEditToken overwrites the live edit token and its expiry.
	SetEditToken(ctx context.Context, volunteerID id.VolunteerID, token string, expiresAt time.Time) error

	// MarkInviteSent flips discord_invite_sent false->true. Returns false
	// when the flag was already set.
	MarkInviteSent(ctx context.Context, volunteerID id.VolunteerID) (bool, error)

	ListHistory(ctx context.Context, volunteerID id.VolunteerID) ([]*models.StatusHistory, error)

	CountTotal(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountByStatus(ctx context.Context) (map[id.StatusID]int, error)
	CountBySquad(ctx context.Context) (map[id.SquadID]int, error)
	CountByVolunteerType(ctx context.Context) (map[id.VolunteerTypeID]int, error)
}
