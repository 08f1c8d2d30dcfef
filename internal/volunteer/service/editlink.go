package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mobiliza/internal/events"
	"mobiliza/internal/volunteer/models"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/platform/sentinel"
	"mobiliza/pkg/requestcontext"
	"mobiliza/pkg/secrets"
)

const (
	msgInvalidLink  = "Link inválido"
	msgExpiredLink  = "Link expirado"
	msgDailyLimit   = "Limite diário de edições atingido"
	msgEmailMissing = "E-mail não encontrado"
)

// RequestEditLink issues a fresh edit token for the volunteer with the given
// email and sends the edit link. Issuing overwrites any prior token, so at
// most one token is live per volunteer. The email send failure is logged but
// does not undo issuance.
func (s *Service) RequestEditLink(ctx context.Context, emailAddr string) (*models.Volunteer, error) {
	volunteer, err := s.store.GetByEmail(ctx, strings.TrimSpace(emailAddr))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, msgEmailMissing)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up volunteer")
	}

	token, err := secrets.GenerateToken()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate edit token")
	}

	now := requestcontext.Now(ctx)
	expiresAt := now.Add(s.cfg.EditTokenTTL)
	if err := s.store.SetEditToken(ctx, volunteer.ID, token, expiresAt); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store edit token")
	}
	volunteer.EditToken = &token
	volunteer.EditTokenExpiresAt = &expiresAt

	editURL := strings.TrimRight(s.cfg.EditLinkBaseURL, "/") + "/" + token
	if err := s.notifier.Send(ctx, volunteer.Email, notifyName(volunteer), s.cfg.EditLinkTemplateID,
		map[string]string{"edit_url": editURL}); err != nil {
		s.logger.WarnContext(ctx, "edit link email failed, token remains issued",
			"volunteer_id", volunteer.ID,
			"error", err,
		)
	}

	if s.metrics != nil {
		s.metrics.IncrementEditLinksIssued()
	}
	return volunteer, nil
}

// ValidateEditToken resolves a token to its volunteer. An unknown token and a
// volunteer whose expiry field was never set are indistinguishable: both are
// invalid. A known token past its window is expired.
func (s *Service) ValidateEditToken(ctx context.Context, token string) (*models.Volunteer, error) {
	if token == "" {
		return nil, dErrors.New(dErrors.CodeValidation, msgInvalidLink)
	}
	volunteer, err := s.store.GetByEditToken(ctx, token)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeValidation, msgInvalidLink)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up edit token")
	}
	if volunteer.EditTokenExpiresAt == nil {
		return nil, dErrors.New(dErrors.CodeValidation, msgInvalidLink)
	}
	if volunteer.EditTokenExpiresAt.Before(requestcontext.Now(ctx)) {
		return nil, dErrors.New(dErrors.CodeExpired, msgExpiredLink)
	}
	return volunteer, nil
}

// ApplyEdit validates the token and applies the patch under the daily quota.
// The counter resets whenever the UTC civil date has moved past
// last_edit_date; the reset happens before the quota check, so the first edit
// of a new day always has a fresh quota. A quota rejection applies nothing
// and leaves the counter untouched.
func (s *Service) ApplyEdit(ctx context.Context, token string, patch models.EditPatch) (*models.Volunteer, error) {
	volunteer, err := s.ValidateEditToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if patch.VolunteerTypeID != nil {
		if _, err := s.catalog.GetVolunteerType(ctx, *patch.VolunteerTypeID); err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				return nil, dErrors.New(dErrors.CodeValidation, "volunteer type not found")
			}
			return nil, err
		}
	}
	if patch.VerticalIDs != nil {
		if _, err := s.catalog.ResolveVerticals(ctx, patch.VerticalIDs); err != nil {
			return nil, err
		}
	}

	now := requestcontext.Now(ctx)
	updated, err := s.store.Execute(ctx, volunteer.ID, func(v *models.Volunteer) error {
		// Revalidate under the lock: the token may have been reissued or
		// expired between lookup and apply.
		if v.EditToken == nil || *v.EditToken != token || v.EditTokenExpiresAt == nil {
			return dErrors.New(dErrors.CodeValidation, msgInvalidLink)
		}
		if v.EditTokenExpiresAt.Before(now) {
			return dErrors.New(dErrors.CodeExpired, msgExpiredLink)
		}

		if v.LastEditDate == nil || !models.SameCivilDate(*v.LastEditDate, now) {
			today := truncateToCivilDate(now)
			v.DailyEditsCount = 0
			v.LastEditDate = &today
		}
		if v.DailyEditsCount >= s.cfg.DailyEditLimit {
			return dErrors.New(dErrors.CodeQuotaExceeded, msgDailyLimit)
		}

		patch.Apply(v)
		v.DailyEditsCount++
		v.UpdatedAt = now
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeQuotaExceeded) && s.metrics != nil {
			s.metrics.IncrementEditQuotaRejections()
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, msgInvalidLink)
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementEditsApplied()
	}
	s.publisher.Publish(ctx, events.LifecycleEvent{
		Type:        events.TypeEditApplied,
		VolunteerID: updated.ID,
		OccurredAt:  now,
	})
	return updated, nil
}

func truncateToCivilDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
