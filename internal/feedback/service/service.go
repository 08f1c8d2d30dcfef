// Package service implements operator feedback on volunteers.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	authmodels "mobiliza/internal/auth/models"
	"mobiliza/internal/feedback/models"
	"mobiliza/internal/feedback/store"
	volunteermodels "mobiliza/internal/volunteer/models"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/email"
	"mobiliza/pkg/platform/sentinel"
	"mobiliza/pkg/requestcontext"
)

// maskedAuthor stands in when the author account is gone or was never set.
const maskedAuthor = "***"

// Volunteers resolves volunteer references.
type Volunteers interface {
	Get(ctx context.Context, volunteerID id.VolunteerID) (*volunteermodels.Volunteer, error)
	GetByEmail(ctx context.Context, emailAddr string) (*volunteermodels.Volunteer, error)
}

// Authors resolves operator accounts for display.
type Authors interface {
	Get(ctx context.Context, userID id.UserID) (*authmodels.User, error)
}

// Service manages feedback notes.
type Service struct {
	store      store.Store
	volunteers Volunteers
	authors    Authors
	logger     *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a feedback service.
func NewService(st store.Store, volunteers Volunteers, authors Authors, opts ...Option) *Service {
	s := &Service{
		store:      st,
		volunteers: volunteers,
		authors:    authors,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a feedback note. The author is the authenticated operator
// from the request context; an unauthenticated context leaves the author
// unset.
func (s *Service) Create(ctx context.Context, volunteerID id.VolunteerID, content string) (*models.Feedback, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "content is required")
	}

	if _, err := s.volunteers.Get(ctx, volunteerID); err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		ID:          id.NewFeedbackID(),
		VolunteerID: volunteerID,
		Content:     content,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if authorID := requestcontext.UserID(ctx); !authorID.IsNil() {
		feedback.AuthorUserID = &authorID
	}

	if err := s.store.Create(ctx, feedback); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create feedback")
	}
	return feedback, nil
}

// Entry is a feedback note with its author resolved for display.
type Entry struct {
	ID          id.FeedbackID
	Content     string
	AuthorName  string
	AuthorEmail string
	CreatedAt   time.Time
}

// ListForVolunteer returns the volunteer's feedback in insertion order.
// Authors are shown through their own volunteer profile, matched by email;
// an author without one renders as the placeholder. Emails come back masked:
// feedback is shown on the public profile and real addresses must not leak
// there.
func (s *Service) ListForVolunteer(ctx context.Context, volunteerID id.VolunteerID) ([]Entry, error) {
	if _, err := s.volunteers.Get(ctx, volunteerID); err != nil {
		return nil, err
	}

	feedbacks, err := s.store.ListForVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list feedback")
	}

	authors := make(map[id.UserID]authorDisplay)
	out := make([]Entry, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		entry := Entry{
			ID:          feedback.ID,
			Content:     feedback.Content,
			AuthorName:  maskedAuthor,
			AuthorEmail: maskedAuthor,
			CreatedAt:   feedback.CreatedAt,
		}
		if feedback.AuthorUserID != nil {
			display, err := s.resolveAuthor(ctx, authors, *feedback.AuthorUserID)
			if err != nil {
				return nil, err
			}
			entry.AuthorName = display.name
			entry.AuthorEmail = display.email
		}
		out = append(out, entry)
	}
	return out, nil
}

type authorDisplay struct {
	name  string
	email string
}

func (s *Service) resolveAuthor(ctx context.Context, cache map[id.UserID]authorDisplay, authorID id.UserID) (authorDisplay, error) {
	if display, ok := cache[authorID]; ok {
		return display, nil
	}

	display := authorDisplay{name: maskedAuthor, email: maskedAuthor}
	author, err := s.lookupAuthor(ctx, authorID)
	if err != nil {
		return authorDisplay{}, err
	}
	if author != nil {
		profile, err := s.lookupProfile(ctx, author.Email)
		if err != nil {
			return authorDisplay{}, err
		}
		if profile != nil {
			display = authorDisplay{name: profile.Name, email: email.Mask(profile.Email)}
		}
	}
	cache[authorID] = display
	return display, nil
}

func (s *Service) lookupAuthor(ctx context.Context, authorID id.UserID) (*authmodels.User, error) {
	author, err := s.authors.Get(ctx, authorID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return author, nil
}

func (s *Service) lookupProfile(ctx context.Context, emailAddr string) (*volunteermodels.Volunteer, error) {
	profile, err := s.volunteers.GetByEmail(ctx, emailAddr)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}
