// Package models holds the volunteer feedback model.
package models

import (
	"time"

	id "mobiliza/pkg/domain"
)

// Feedback is a free-text note an operator leaves on a volunteer. The author
// is nullable: accounts can be removed while their notes stay.
type Feedback struct {
	ID           id.FeedbackID
	VolunteerID  id.VolunteerID
	AuthorUserID *id.UserID
	Content      string
	CreatedAt    time.Time
}
