// Package models defines the organizational catalog entities volunteers are
// linked to: projects, squads, volunteer types, and verticals.
package models

import (
	"time"

	id "mobiliza/pkg/domain"
)

// Project is a long-running initiative squads are organized under.
type Project struct {
	ID        id.ProjectID
	Name      string
	CreatedAt time.Time
}

// Squad is a working group a volunteer can be assigned to.
type Squad struct {
	ID        id.SquadID
	Name      string
	ProjectID *id.ProjectID
	CreatedAt time.Time
}

// VolunteerType classifies how a volunteer contributes.
type VolunteerType struct {
	ID        id.VolunteerTypeID
	Name      string
	CreatedAt time.Time
}

// Vertical is an interest area a volunteer can subscribe to.
type Vertical struct {
	ID        id.VerticalID
	Name      string
	CreatedAt time.Time
}
