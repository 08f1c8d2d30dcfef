package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobiliza/internal/catalog/store"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
)

func newService() *Service {
	return NewService(store.NewMemoryStore())
}

func TestCreateSquad(t *testing.T) {
	ctx := context.Background()

	t.Run("links to an existing project", func(t *testing.T) {
		svc := newService()
		project, err := svc.CreateProject(ctx, "SOS Acolhimento")
		require.NoError(t, err)

		squad, err := svc.CreateSquad(ctx, "Squad Backend", &project.ID)
		require.NoError(t, err)
		require.NotNil(t, squad.ProjectID)
		assert.Equal(t, project.ID, *squad.ProjectID)
	})

	t.Run("rejects an unknown project", func(t *testing.T) {
		svc := newService()
		missing := id.NewProjectID()
		_, err := svc.CreateSquad(ctx, "Squad Backend", &missing)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("project is optional", func(t *testing.T) {
		svc := newService()
		squad, err := svc.CreateSquad(ctx, "Squad Solta", nil)
		require.NoError(t, err)
		assert.Nil(t, squad.ProjectID)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		svc := newService()
		_, err := svc.CreateSquad(ctx, "Squad Backend", nil)
		require.NoError(t, err)
		_, err = svc.CreateSquad(ctx, "Squad Backend", nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestCreateVolunteerType(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	vtype, err := svc.CreateVolunteerType(ctx, " Desenvolvedora ")
	require.NoError(t, err)
	assert.Equal(t, "Desenvolvedora", vtype.Name)

	_, err = svc.CreateVolunteerType(ctx, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestResolveVerticals(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	first, err := svc.CreateVertical(ctx, "Educação")
	require.NoError(t, err)
	second, err := svc.CreateVertical(ctx, "Saúde")
	require.NoError(t, err)

	t.Run("preserves order", func(t *testing.T) {
		resolved, err := svc.ResolveVerticals(ctx, []id.VerticalID{second.ID, first.ID})
		require.NoError(t, err)
		require.Len(t, resolved, 2)
		assert.Equal(t, "Saúde", resolved[0].Name)
		assert.Equal(t, "Educação", resolved[1].Name)
	})

	t.Run("any unknown id fails the whole set", func(t *testing.T) {
		_, err := svc.ResolveVerticals(ctx, []id.VerticalID{first.ID, id.NewVerticalID()})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("empty set resolves to empty", func(t *testing.T) {
		resolved, err := svc.ResolveVerticals(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, resolved)
	})
}
