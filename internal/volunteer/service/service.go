// Package service implements the volunteer lifecycle engine: intake, status
// transitions with the at-most-once invite side effect, token-gated
// self-service edits under a daily quota, and operator assignment.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	catalogmodels "mobiliza/internal/catalog/models"
	"mobiliza/internal/events"
	"mobiliza/internal/notify"
	"mobiliza/internal/platform/metrics"
	statusmodels "mobiliza/internal/status/models"
	"mobiliza/internal/volunteer/models"
	"mobiliza/internal/volunteer/store"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/email"
	"mobiliza/pkg/platform/sentinel"
	"mobiliza/pkg/requestcontext"
)

// StatusDirectory resolves status catalog entries. Trigger and default
// statuses are looked up by name per call: catalog row ids are not stable
// across environments.
type StatusDirectory interface {
	GetByName(ctx context.Context, name string) (*statusmodels.Status, error)
	GetByID(ctx context.Context, statusID id.StatusID) (*statusmodels.Status, error)
}

// Catalog validates references into the organizational catalog.
type Catalog interface {
	GetSquad(ctx context.Context, squadID id.SquadID) (*catalogmodels.Squad, error)
	GetVolunteerType(ctx context.Context, typeID id.VolunteerTypeID) (*catalogmodels.VolunteerType, error)
	ResolveVerticals(ctx context.Context, ids []id.VerticalID) ([]*catalogmodels.Vertical, error)
}

// Checker reports whether an email belongs to an active APOIA.se backer.
type Checker interface {
	IsBacker(ctx context.Context, email string) (bool, error)
}

// Config tunes the lifecycle engine.
type Config struct {
	DefaultStatusName  string
	InviteStatusName   string
	EditTokenTTL       time.Duration
	DailyEditLimit     int
	EditLinkBaseURL    string
	EditLinkTemplateID int64
	InviteTemplateID   int64
}

// Service is the volunteer lifecycle engine.
type Service struct {
	store     store.Store
	statuses  StatusDirectory
	catalog   Catalog
	cfg       Config
	notifier  notify.Notifier
	apoiase   Checker
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithNotifier sets the outbound email port.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithApoiaseChecker sets the backer lookup used best-effort at intake.
func WithApoiaseChecker(c Checker) Option {
	return func(s *Service) { s.apoiase = c }
}

// WithPublisher sets the lifecycle event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// NewService creates the lifecycle engine.
func NewService(st store.Store, statuses StatusDirectory, catalog Catalog, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:     st,
		statuses:  statuses,
		catalog:   catalog,
		cfg:       cfg,
		notifier:  notify.Nop{},
		publisher: events.NopPublisher{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput carries a public intake submission.
type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Discord         string
	Linkedin        string
	Github          string
	VolunteerTypeID *id.VolunteerTypeID
	VerticalIDs     []id.VerticalID
}

// Register creates a volunteer with the default status. The creation itself
// is the first history entry. The APOIA.se lookup is best-effort: a failure
// never blocks intake.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.Volunteer, error) {
	name := strings.TrimSpace(input.Name)
	emailAddr := strings.TrimSpace(input.Email)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if emailAddr == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}

	if input.VolunteerTypeID != nil {
		if _, err := s.catalog.GetVolunteerType(ctx, *input.VolunteerTypeID); err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				return nil, dErrors.New(dErrors.CodeValidation, "volunteer type not found")
			}
			return nil, err
		}
	}
	if len(input.VerticalIDs) > 0 {
		if _, err := s.catalog.ResolveVerticals(ctx, input.VerticalIDs); err != nil {
			return nil, err
		}
	}

	defaultStatus, err := s.statuses.GetByName(ctx, s.cfg.DefaultStatusName)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "default status is not seeded")
	}

	now := requestcontext.Now(ctx)
	volunteer := &models.Volunteer{
		ID:          id.NewVolunteerID(),
		Name:        name,
		Email:       emailAddr,
		Phone:       strings.TrimSpace(input.Phone),
		Discord:     strings.TrimSpace(input.Discord),
		Linkedin:    strings.TrimSpace(input.Linkedin),
		Github:      strings.TrimSpace(input.Github),
		StatusID:    defaultStatus.ID,
		VerticalIDs: input.VerticalIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.VolunteerTypeID != nil {
		typeID := *input.VolunteerTypeID
		volunteer.VolunteerTypeID = &typeID
	}

	if s.apoiase != nil {
		supporter, err := s.apoiase.IsBacker(ctx, emailAddr)
		if err != nil {
			s.logger.WarnContext(ctx, "apoiase lookup failed, registering without supporter flag",
				"error", err,
			)
		} else {
			volunteer.IsApoiaseSupporter = supporter
		}
	}

	first := &models.StatusHistory{
		ID:          id.NewHistoryID(),
		VolunteerID: volunteer.ID,
		StatusID:    defaultStatus.ID,
		CreatedAt:   now,
	}
	if err := s.store.Create(ctx, volunteer, first); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create volunteer")
	}

	if s.metrics != nil {
		s.metrics.IncrementVolunteersCreated()
	}
	s.publisher.Publish(ctx, events.LifecycleEvent{
		Type:        events.TypeVolunteerCreated,
		VolunteerID: volunteer.ID,
		Status:      defaultStatus.Name,
		OccurredAt:  now,
	})
	return volunteer, nil
}

// Get returns a volunteer by ID.
func (s *Service) Get(ctx context.Context, volunteerID id.VolunteerID) (*models.Volunteer, error) {
	volunteer, err := s.store.GetByID(ctx, volunteerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "volunteer not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load volunteer")
	}
	return volunteer, nil
}

// GetByEmail returns a volunteer by their registered email.
func (s *Service) GetByEmail(ctx context.Context, emailAddr string) (*models.Volunteer, error) {
	volunteer, err := s.store.GetByEmail(ctx, emailAddr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "volunteer not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load volunteer")
	}
	return volunteer, nil
}

// List returns volunteers, optionally filtered by status name and squad.
func (s *Service) List(ctx context.Context, statusName string, squadID *id.SquadID) ([]*models.Volunteer, error) {
	var filter store.ListFilter
	if statusName != "" {
		status, err := s.statuses.GetByName(ctx, statusName)
		if err != nil {
			return nil, err
		}
		filter.StatusID = &status.ID
	}
	filter.SquadID = squadID

	volunteers, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list volunteers")
	}
	return volunteers, nil
}

// HistoryEntry is one ledger row with its status resolved to a name.
type HistoryEntry struct {
	StatusID   id.StatusID
	StatusName string
	CreatedAt  time.Time
}

// History returns the volunteer's status ledger in insertion order.
func (s *Service) History(ctx context.Context, volunteerID id.VolunteerID) ([]HistoryEntry, error) {
	if _, err := s.Get(ctx, volunteerID); err != nil {
		return nil, err
	}
	records, err := s.store.ListHistory(ctx, volunteerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load history")
	}

	names := make(map[id.StatusID]string)
	out := make([]HistoryEntry, 0, len(records))
	for _, record := range records {
		name, ok := names[record.StatusID]
		if !ok {
			status, err := s.statuses.GetByID(ctx, record.StatusID)
			if err != nil {
				return nil, err
			}
			name = status.Name
			names[record.StatusID] = name
		}
		out = append(out, HistoryEntry{
			StatusID:   record.StatusID,
			StatusName: name,
			CreatedAt:  record.CreatedAt,
		})
	}
	return out, nil
}

// Transition moves the volunteer to the status named statusName. A transition
// to the current status is a no-op: no history row, no dispatch. After the
// change is committed the invite dispatcher runs synchronously.
func (s *Service) Transition(ctx context.Context, volunteerID id.VolunteerID, statusName string) (*models.Volunteer, error) {
	status, err := s.statuses.GetByName(ctx, statusName)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	record := &models.StatusHistory{
		ID:          id.NewHistoryID(),
		VolunteerID: volunteerID,
		StatusID:    status.ID,
		CreatedAt:   now,
	}
	volunteer, changed, err := s.store.Transition(ctx, volunteerID, record)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "volunteer not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record transition")
	}
	if !changed {
		return volunteer, nil
	}

	if s.metrics != nil {
		s.metrics.IncrementStatusTransitions(status.Name)
	}
	s.publisher.Publish(ctx, events.LifecycleEvent{
		Type:        events.TypeStatusChanged,
		VolunteerID: volunteerID,
		Status:      status.Name,
		OccurredAt:  now,
	})

	s.dispatchInvite(ctx, volunteer, status.ID)
	return volunteer, nil
}

// notifyName is the display name for outbound email. A volunteer without a
// stored name gets one derived from their address.
func notifyName(v *models.Volunteer) string {
	if v.Name != "" {
		return v.Name
	}
	return email.DeriveName(v.Email)
}

// dispatchInvite fires the Discord invite at most once per volunteer. The
// notifier call happens outside any store lock; the flag is committed in a
// separate compare-and-set only after a successful send, so a failed send can
// be retried by a later transition through the trigger status.
func (s *Service) dispatchInvite(ctx context.Context, volunteer *models.Volunteer, newStatusID id.StatusID) {
	trigger, err := s.statuses.GetByName(ctx, s.cfg.InviteStatusName)
	if err != nil {
		s.logger.WarnContext(ctx, "invite trigger status not resolvable, skipping dispatch",
			"status", s.cfg.InviteStatusName,
			"error", err,
		)
		return
	}
	if newStatusID != trigger.ID || volunteer.DiscordInviteSent {
		return
	}

	if err := s.notifier.Send(ctx, volunteer.Email, notifyName(volunteer), s.cfg.InviteTemplateID, nil); err != nil {
		s.logger.WarnContext(ctx, "discord invite notification failed, flag left unset",
			"volunteer_id", volunteer.ID,
			"error", err,
		)
		return
	}

	won, err := s.store.MarkInviteSent(ctx, volunteer.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist invite flag after send",
			"volunteer_id", volunteer.ID,
			"error", err,
		)
		return
	}
	if won {
		volunteer.DiscordInviteSent = true
		if s.metrics != nil {
			s.metrics.IncrementDiscordInvitesSent()
		}
	}
}

// AssignInput carries an operator-side assignment. Nil fields are left
// unchanged.
type AssignInput struct {
	SquadID         *id.SquadID
	VolunteerTypeID *id.VolunteerTypeID
}

// Assign links the volunteer to a squad and/or volunteer type.
func (s *Service) Assign(ctx context.Context, volunteerID id.VolunteerID, input AssignInput) (*models.Volunteer, error) {
	if input.SquadID != nil {
		if _, err := s.catalog.GetSquad(ctx, *input.SquadID); err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				return nil, dErrors.New(dErrors.CodeValidation, "squad not found")
			}
			return nil, err
		}
	}
	if input.VolunteerTypeID != nil {
		if _, err := s.catalog.GetVolunteerType(ctx, *input.VolunteerTypeID); err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				return nil, dErrors.New(dErrors.CodeValidation, "volunteer type not found")
			}
			return nil, err
		}
	}

	now := requestcontext.Now(ctx)
	volunteer, err := s.store.Execute(ctx, volunteerID, func(v *models.Volunteer) error {
		if input.SquadID != nil {
			squadID := *input.SquadID
			v.SquadID = &squadID
		}
		if input.VolunteerTypeID != nil {
			typeID := *input.VolunteerTypeID
			v.VolunteerTypeID = &typeID
		}
		v.UpdatedAt = now
		return nil
	})
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "volunteer not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign volunteer")
	}
	return volunteer, nil
}
