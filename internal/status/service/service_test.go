package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobiliza/internal/status/store"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/requestcontext"
)

func newService() *Service {
	return NewService(store.NewMemoryStore())
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the name", func(t *testing.T) {
		svc := newService()
		status, err := svc.Create(ctx, "  ativa ", "onboarded and in a squad")
		require.NoError(t, err)
		assert.Equal(t, "ATIVA", status.Name)
		assert.False(t, status.ID.IsNil())
	})

	t.Run("uses the request time", func(t *testing.T) {
		svc := newService()
		now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		status, err := svc.Create(requestcontext.WithTime(ctx, now), "ATIVA", "")
		require.NoError(t, err)
		assert.Equal(t, now, status.CreatedAt)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		svc := newService()
		_, err := svc.Create(ctx, "   ", "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		svc := newService()
		_, err := svc.Create(ctx, "ATIVA", "")
		require.NoError(t, err)
		_, err = svc.Create(ctx, "ativa", "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestGetByName(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	created, err := svc.Create(ctx, "INTERESSADA", "")
	require.NoError(t, err)

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		status, err := svc.GetByName(ctx, "interessada")
		require.NoError(t, err)
		assert.Equal(t, created.ID, status.ID)
	})

	t.Run("unknown name returns not found", func(t *testing.T) {
		_, err := svc.GetByName(ctx, "DESCONHECIDA")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	require.NoError(t, svc.Seed(ctx, "INTERESSADA", "ATIVA"))

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, svc.Seed(ctx, "INTERESSADA", "ATIVA"))
		statuses, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, statuses, 2)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	require.NoError(t, svc.Seed(ctx, "INTERESSADA", "ATIVA", "DESLIGADA"))

	statuses, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, "ATIVA", statuses[0].Name)
	assert.Equal(t, "DESLIGADA", statuses[1].Name)
	assert.Equal(t, "INTERESSADA", statuses[2].Name)
}
