// Package models defines the lifecycle status catalog entry.
package models

import (
	"time"

	id "mobiliza/pkg/domain"
)

// Status is a named lifecycle stage a volunteer can be in. The catalog is
// append-only: statuses are never deleted because the history ledger keeps
// references to them forever.
type Status struct {
	ID          id.StatusID
	Name        string
	Description string
	CreatedAt   time.Time
}
