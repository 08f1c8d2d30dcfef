// Package models defines the volunteer aggregate and its status history.
package models

import (
	"time"

	id "mobiliza/pkg/domain"
)

// Volunteer is the lifecycle aggregate. Status changes go through the history
// ledger; self-service edits go through the token-gated editor.
type Volunteer struct {
	ID       id.VolunteerID
	Name     string
	Email    string
	Phone    string
	Discord  string
	Linkedin string
	Github   string

	StatusID        id.StatusID
	VolunteerTypeID *id.VolunteerTypeID
	SquadID         *id.SquadID
	VerticalIDs     []id.VerticalID

	IsApoiaseSupporter bool

	// DiscordInviteSent is the idempotency marker for the invite side effect.
	// Once true it stays true for the volunteer's lifetime.
	DiscordInviteSent bool

	// At most one edit token is live at a time; issuing a new one overwrites
	// the previous one.
	EditToken          *string
	EditTokenExpiresAt *time.Time

	// DailyEditsCount is meaningful only relative to LastEditDate: it is
	// reset whenever the current civil date differs from LastEditDate.
	DailyEditsCount int
	LastEditDate    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so stores can hand out values without aliasing
// their internal state.
func (v *Volunteer) Clone() *Volunteer {
	copied := *v
	if v.VolunteerTypeID != nil {
		typeID := *v.VolunteerTypeID
		copied.VolunteerTypeID = &typeID
	}
	if v.SquadID != nil {
		squadID := *v.SquadID
		copied.SquadID = &squadID
	}
	if v.VerticalIDs != nil {
		copied.VerticalIDs = append([]id.VerticalID(nil), v.VerticalIDs...)
	}
	if v.EditToken != nil {
		token := *v.EditToken
		copied.EditToken = &token
	}
	if v.EditTokenExpiresAt != nil {
		expires := *v.EditTokenExpiresAt
		copied.EditTokenExpiresAt = &expires
	}
	if v.LastEditDate != nil {
		date := *v.LastEditDate
		copied.LastEditDate = &date
	}
	return &copied
}

// StatusHistory is one append-only ledger row. It records the destination
// status only; origins are reconstructable by ordering rows per volunteer.
type StatusHistory struct {
	ID          id.HistoryID
	VolunteerID id.VolunteerID
	StatusID    id.StatusID
	CreatedAt   time.Time
}

// EditPatch carries a self-service edit. Name and Linkedin overwrite only
// when non-empty; Phone, Discord, and Github are set verbatim when present
// (clearing them is a legitimate edit); VolunteerTypeID and VerticalIDs
// replace the current values when present.
type EditPatch struct {
	Name            string
	Linkedin        string
	Phone           *string
	Discord         *string
	Github          *string
	VolunteerTypeID *id.VolunteerTypeID
	VerticalIDs     []id.VerticalID
}

// Apply mutates v according to the patch semantics above.
func (p EditPatch) Apply(v *Volunteer) {
	if p.Name != "" {
		v.Name = p.Name
	}
	if p.Linkedin != "" {
		v.Linkedin = p.Linkedin
	}
	if p.Phone != nil {
		v.Phone = *p.Phone
	}
	if p.Discord != nil {
		v.Discord = *p.Discord
	}
	if p.Github != nil {
		v.Github = *p.Github
	}
	if p.VolunteerTypeID != nil {
		typeID := *p.VolunteerTypeID
		v.VolunteerTypeID = &typeID
	}
	if p.VerticalIDs != nil {
		v.VerticalIDs = append([]id.VerticalID(nil), p.VerticalIDs...)
	}
}

// SameCivilDate reports whether two instants fall on the same UTC calendar
// date.
func SameCivilDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
