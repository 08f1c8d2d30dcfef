//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"mobiliza/internal/status/models"
	"mobiliza/internal/status/store"
	id "mobiliza/pkg/domain"
	"mobiliza/pkg/platform/sentinel"
	"mobiliza/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) TestCreateAndLookup() {
	ctx := context.Background()
	status := &models.Status{
		ID:        id.NewStatusID(),
		Name:      "ATIVA",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.Create(ctx, status))

	byName, err := s.store.GetByName(ctx, "ATIVA")
	s.Require().NoError(err)
	s.Equal(status.ID, byName.ID)

	byID, err := s.store.GetByID(ctx, status.ID)
	s.Require().NoError(err)
	s.Equal("ATIVA", byID.Name)
}

func (s *PostgresStoreSuite) TestDuplicateNameConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, &models.Status{
		ID: id.NewStatusID(), Name: "ATIVA", CreatedAt: time.Now(),
	}))

	err := s.store.Create(ctx, &models.Status{
		ID: id.NewStatusID(), Name: "ATIVA", CreatedAt: time.Now(),
	})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestMissingStatus() {
	_, err := s.store.GetByID(context.Background(), id.NewStatusID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
