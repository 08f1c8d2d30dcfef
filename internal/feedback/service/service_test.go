package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmodels "mobiliza/internal/auth/models"
	authservice "mobiliza/internal/auth/service"
	authstore "mobiliza/internal/auth/store"
	"mobiliza/internal/feedback/store"
	volunteermodels "mobiliza/internal/volunteer/models"
	volunteerstore "mobiliza/internal/volunteer/store"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/requestcontext"
)

type volunteerGetter struct {
	store *volunteerstore.MemoryStore
}

func (g volunteerGetter) Get(ctx context.Context, volunteerID id.VolunteerID) (*volunteermodels.Volunteer, error) {
	v, err := g.store.GetByID(ctx, volunteerID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "volunteer not found")
	}
	return v, nil
}

func (g volunteerGetter) GetByEmail(ctx context.Context, emailAddr string) (*volunteermodels.Volunteer, error) {
	v, err := g.store.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "volunteer not found")
	}
	return v, nil
}

type fixture struct {
	svc        *Service
	users      *authstore.MemoryStore
	volunteers *volunteerstore.MemoryStore
	volunteer  *volunteermodels.Volunteer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	volunteers := volunteerstore.NewMemoryStore()
	users := authstore.NewMemoryStore()
	f := &fixture{
		svc: NewService(store.NewMemoryStore(), volunteerGetter{store: volunteers},
			authservice.NewService(users, nil, authservice.Config{})),
		users:      users,
		volunteers: volunteers,
	}
	f.volunteer = f.addVolunteer(t, "Ana", "ana@example.com")
	return f
}

func (f *fixture) addVolunteer(t *testing.T, name, email string) *volunteermodels.Volunteer {
	t.Helper()
	v := &volunteermodels.Volunteer{
		ID:        id.NewVolunteerID(),
		Name:      name,
		Email:     email,
		StatusID:  id.NewStatusID(),
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.volunteers.Create(context.Background(), v, &volunteermodels.StatusHistory{
		ID:          id.NewHistoryID(),
		VolunteerID: v.ID,
		StatusID:    v.StatusID,
		CreatedAt:   v.CreatedAt,
	}))
	return v
}

func (f *fixture) addUser(t *testing.T, name, email string) *authmodels.User {
	t.Helper()
	user := &authmodels.User{
		ID:        id.NewUserID(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestCreate(t *testing.T) {
	t.Run("records the authenticated author", func(t *testing.T) {
		f := newFixture(t)
		author := f.addUser(t, "Maria", "maria@mobiliza.example.org")
		ctx := requestcontext.WithUserID(context.Background(), author.ID)

		feedback, err := f.svc.Create(ctx, f.volunteer.ID, "Ótima entrevista")
		require.NoError(t, err)
		require.NotNil(t, feedback.AuthorUserID)
		assert.Equal(t, author.ID, *feedback.AuthorUserID)
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(context.Background(), f.volunteer.ID, "   ")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("unknown volunteer is not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(context.Background(), id.NewVolunteerID(), "nota")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestListForVolunteer(t *testing.T) {
	t.Run("resolves authors through their volunteer profile", func(t *testing.T) {
		f := newFixture(t)
		author := f.addUser(t, "maria", "maria@mobiliza.example.org")
		f.addVolunteer(t, "Maria Oliveira", "maria@mobiliza.example.org")
		ctx := requestcontext.WithUserID(context.Background(), author.ID)

		_, err := f.svc.Create(ctx, f.volunteer.ID, "Primeira nota")
		require.NoError(t, err)
		_, err = f.svc.Create(context.Background(), f.volunteer.ID, "Nota sem autor")
		require.NoError(t, err)

		entries, err := f.svc.ListForVolunteer(context.Background(), f.volunteer.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "Maria Oliveira", entries[0].AuthorName)
		assert.Equal(t, "***@mobiliza.example.org", entries[0].AuthorEmail)
		assert.Equal(t, "***", entries[1].AuthorName)
		assert.Equal(t, "***", entries[1].AuthorEmail)
	})

	t.Run("an author without a volunteer profile renders as the mask", func(t *testing.T) {
		f := newFixture(t)
		author := f.addUser(t, "Maria", "maria@mobiliza.example.org")
		ctx := requestcontext.WithUserID(context.Background(), author.ID)

		_, err := f.svc.Create(ctx, f.volunteer.ID, "Nota de operadora sem perfil")
		require.NoError(t, err)

		entries, err := f.svc.ListForVolunteer(context.Background(), f.volunteer.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "***", entries[0].AuthorName)
		assert.Equal(t, "***", entries[0].AuthorEmail)
	})

	t.Run("a removed author account falls back to the mask", func(t *testing.T) {
		f := newFixture(t)
		ghost := id.NewUserID()
		ctx := requestcontext.WithUserID(context.Background(), ghost)

		_, err := f.svc.Create(ctx, f.volunteer.ID, "Autor removido depois")
		require.NoError(t, err)

		entries, err := f.svc.ListForVolunteer(context.Background(), f.volunteer.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "***", entries[0].AuthorName)
	})
}
