// Package domain defines typed identifiers for the core entities. Distinct
// types keep a VolunteerID from being passed where a StatusID is expected;
// the compiler enforces what a bare uuid.UUID cannot.
package domain

import (
	"github.com/google/uuid"

	dErrors "mobiliza/pkg/domain-errors"
)

type (
	// UserID identifies an operator account.
	UserID uuid.UUID
	// VolunteerID identifies a volunteer.
	VolunteerID uuid.UUID
	// StatusID identifies a lifecycle status catalog entry.
	StatusID uuid.UUID
	// SquadID identifies a squad.
	SquadID uuid.UUID
	// ProjectID identifies a squad project.
	ProjectID uuid.UUID
	// VolunteerTypeID identifies a volunteer type catalog entry.
	VolunteerTypeID uuid.UUID
	// VerticalID identifies a vertical catalog entry.
	VerticalID uuid.UUID
	// FeedbackID identifies a feedback entry.
	FeedbackID uuid.UUID
	// HistoryID identifies a status history row.
	HistoryID uuid.UUID
)

func (id UserID) String() string          { return uuid.UUID(id).String() }
func (id VolunteerID) String() string     { return uuid.UUID(id).String() }
func (id StatusID) String() string        { return uuid.UUID(id).String() }
func (id SquadID) String() string         { return uuid.UUID(id).String() }
func (id ProjectID) String() string       { return uuid.UUID(id).String() }
func (id VolunteerTypeID) String() string { return uuid.UUID(id).String() }
func (id VerticalID) String() string      { return uuid.UUID(id).String() }
func (id FeedbackID) String() string      { return uuid.UUID(id).String() }
func (id HistoryID) String() string       { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id VolunteerID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id StatusID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id SquadID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ProjectID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id VolunteerTypeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id VerticalID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id FeedbackID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id HistoryID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)          { return []byte(id.String()), nil }
func (id VolunteerID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id StatusID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id SquadID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id ProjectID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id VolunteerTypeID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id VerticalID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id FeedbackID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id HistoryID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := parse(string(text))
	*id = UserID(parsed)
	return err
}

func (id *VolunteerID) UnmarshalText(text []byte) error {
	parsed, err := parse(string(text))
	*id = VolunteerID(parsed)
	return err
}

func (id *StatusID) UnmarshalText(text []byte) error {
	parsed, err := parse(string(text))
	*id = StatusID(parsed)
	return err
}

func (id *SquadID) UnmarshalText(text []byte) error {
	parsed, err := parse(string(text))
	*id = SquadID(parsed)
	return err
}

func (id *ProjectID) UnmarshalText(text []byte) error {
	parsed, err := parse(string(text))
	*id = ProjectID(parsed)
	return err
}

func (id *VolunteerTypeID) UnmarshalText(text []byte) error {
	parsed, err := parse(string(text))
	*id = VolunteerTypeID(parsed)
	return err
}

func (id *VerticalID) UnmarshalText(text []byte) error {
	parsed, err := parse(string(text))
	*id = VerticalID(parsed)
	return err
}

func (id *FeedbackID) UnmarshalText(text []byte) error {
	parsed, err := parse(string(text))
	*id = FeedbackID(parsed)
	return err
}

func (id *HistoryID) UnmarshalText(text []byte) error {
	parsed, err := parse(string(text))
	*id = HistoryID(parsed)
	return err
}

// NewVolunteerID allocates a fresh volunteer identifier.
func NewVolunteerID() VolunteerID { return VolunteerID(uuid.New()) }

// NewStatusID allocates a fresh status identifier.
func NewStatusID() StatusID { return StatusID(uuid.New()) }

// NewUserID allocates a fresh operator identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewHistoryID allocates a fresh history row identifier.
func NewHistoryID() HistoryID { return HistoryID(uuid.New()) }

// NewSquadID allocates a fresh squad identifier.
func NewSquadID() SquadID { return SquadID(uuid.New()) }

// NewProjectID allocates a fresh project identifier.
func NewProjectID() ProjectID { return ProjectID(uuid.New()) }

// NewVolunteerTypeID allocates a fresh volunteer type identifier.
func NewVolunteerTypeID() VolunteerTypeID { return VolunteerTypeID(uuid.New()) }

// NewVerticalID allocates a fresh vertical identifier.
func NewVerticalID() VerticalID { return VerticalID(uuid.New()) }

// NewFeedbackID allocates a fresh feedback identifier.
func NewFeedbackID() FeedbackID { return FeedbackID(uuid.New()) }

func parse(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

// ParseUserID parses and validates an operator identifier.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parse(raw)
	return UserID(parsed), err
}

// ParseVolunteerID parses and validates a volunteer identifier.
func ParseVolunteerID(raw string) (VolunteerID, error) {
	parsed, err := parse(raw)
	return VolunteerID(parsed), err
}

// ParseStatusID parses and validates a status identifier.
func ParseStatusID(raw string) (StatusID, error) {
	parsed, err := parse(raw)
	return StatusID(parsed), err
}

// ParseSquadID parses and validates a squad identifier.
func ParseSquadID(raw string) (SquadID, error) {
	parsed, err := parse(raw)
	return SquadID(parsed), err
}

// ParseProjectID parses and validates a project identifier.
func ParseProjectID(raw string) (ProjectID, error) {
	parsed, err := parse(raw)
	return ProjectID(parsed), err
}

// ParseVolunteerTypeID parses and validates a volunteer type identifier.
func ParseVolunteerTypeID(raw string) (VolunteerTypeID, error) {
	parsed, err := parse(raw)
	return VolunteerTypeID(parsed), err
}

// ParseVerticalID parses and validates a vertical identifier.
func ParseVerticalID(raw string) (VerticalID, error) {
	parsed, err := parse(raw)
	return VerticalID(parsed), err
}

// ParseFeedbackID parses and validates a feedback identifier.
func ParseFeedbackID(raw string) (FeedbackID, error) {
	parsed, err := parse(raw)
	return FeedbackID(parsed), err
}

// ParseHistoryID parses and validates a history row identifier.
func ParseHistoryID(raw string) (HistoryID, error) {
	parsed, err := parse(raw)
	return HistoryID(parsed), err
}
