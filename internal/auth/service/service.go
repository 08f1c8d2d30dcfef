// Package service implements operator registration and authentication.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"mobiliza/internal/auth/models"
	"mobiliza/internal/auth/store"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/platform/sentinel"
	"mobiliza/pkg/requestcontext"
	"mobiliza/pkg/secrets"
)

// TokenIssuer signs access tokens for authenticated operators.
type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, email string, expiresIn time.Duration) (string, error)
}

// Config tunes the auth service.
type Config struct {
	// RegistrationCode gates operator self-registration. Registration with
	// a wrong code is forbidden.
	RegistrationCode string
	TokenTTL         time.Duration
}

// Service manages operator accounts.
type Service struct {
	store  store.Store
	tokens TokenIssuer
	cfg    Config
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates an auth service.
func NewService(st store.Store, tokens TokenIssuer, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:  st,
		tokens: tokens,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an operator account. The registration code must match the
// configured one.
func (s *Service) Register(ctx context.Context, name, emailAddr, password, registrationCode string) (*models.User, error) {
	if subtle.ConstantTimeCompare([]byte(registrationCode), []byte(s.cfg.RegistrationCode)) != 1 {
		return nil, dErrors.New(dErrors.CodeForbidden, "invalid registration code")
	}

	name = strings.TrimSpace(name)
	emailAddr = strings.TrimSpace(emailAddr)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if emailAddr == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if len(password) < 8 {
		return nil, dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := secrets.HashPassword(password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := &models.User{
		ID:           id.NewUserID(),
		Name:         name,
		Email:        emailAddr,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	return user, nil
}

// Authenticate verifies operator credentials and issues an access token. A
// missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, emailAddr, password string) (string, error) {
	user, err := s.store.GetByEmail(ctx, strings.TrimSpace(emailAddr))
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if !secrets.VerifyPassword(password, user.PasswordHash) {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	// Deactivated accounts get the same answer as bad credentials.
	if !user.IsActive {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, s.cfg.TokenTTL)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return token, nil
}

// Get returns an operator account by ID.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}
