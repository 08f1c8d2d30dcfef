package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authjwt "mobiliza/internal/auth/jwt"
	"mobiliza/internal/auth/models"
	"mobiliza/internal/auth/store"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/secrets"
)

const registrationCode = "mobiliza-2025"

func newService() (*Service, *authjwt.Service) {
	tokens := authjwt.NewService("test-signing-key", "mobiliza")
	svc := NewService(store.NewMemoryStore(), tokens, Config{
		RegistrationCode: registrationCode,
		TokenTTL:         time.Hour,
	})
	return svc, tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an operator", func(t *testing.T) {
		svc, _ := newService()
		user, err := svc.Register(ctx, "Maria", "maria@mobiliza.example.org", "long-password", registrationCode)
		require.NoError(t, err)
		assert.Equal(t, "Maria", user.Name)
		assert.NotEqual(t, "long-password", user.PasswordHash)
	})

	t.Run("wrong registration code is forbidden", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Register(ctx, "Maria", "maria@mobiliza.example.org", "long-password", "guess")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Register(ctx, "Maria", "maria@mobiliza.example.org", "short", registrationCode)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Register(ctx, "Maria", "maria@mobiliza.example.org", "long-password", registrationCode)
		require.NoError(t, err)
		_, err = svc.Register(ctx, "Outra", "maria@mobiliza.example.org", "long-password", registrationCode)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials yield a verifiable token", func(t *testing.T) {
		svc, tokens := newService()
		user, err := svc.Register(ctx, "Maria", "maria@mobiliza.example.org", "long-password", registrationCode)
		require.NoError(t, err)

		token, err := svc.Authenticate(ctx, "maria@mobiliza.example.org", "long-password")
		require.NoError(t, err)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("deactivated account cannot authenticate", func(t *testing.T) {
		st := store.NewMemoryStore()
		tokens := authjwt.NewService("test-signing-key", "mobiliza")
		svc := NewService(st, tokens, Config{RegistrationCode: registrationCode, TokenTTL: time.Hour})

		hash, err := secrets.HashPassword("long-password")
		require.NoError(t, err)
		require.NoError(t, st.Create(ctx, &models.User{
			ID:           id.NewUserID(),
			Name:         "Maria",
			Email:        "maria@mobiliza.example.org",
			PasswordHash: hash,
			IsActive:     false,
			CreatedAt:    time.Now(),
		}))

		_, err = svc.Authenticate(ctx, "maria@mobiliza.example.org", "long-password")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.Equal(t, "invalid credentials", dErrors.MessageOf(err))
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Register(ctx, "Maria", "maria@mobiliza.example.org", "long-password", registrationCode)
		require.NoError(t, err)

		_, errWrong := svc.Authenticate(ctx, "maria@mobiliza.example.org", "bad-password")
		_, errUnknown := svc.Authenticate(ctx, "ghost@mobiliza.example.org", "long-password")
		assert.True(t, dErrors.HasCode(errWrong, dErrors.CodeUnauthorized))
		assert.True(t, dErrors.HasCode(errUnknown, dErrors.CodeUnauthorized))
		assert.Equal(t, dErrors.MessageOf(errWrong), dErrors.MessageOf(errUnknown))
	})
}
