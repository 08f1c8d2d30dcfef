// Package models holds the operator account model.
package models

import (
	"time"

	id "mobiliza/pkg/domain"
)

// User is an operator account. Volunteers are not users: they interact only
// through the public intake and the token-gated edit flow.
type User struct {
	ID           id.UserID
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}
