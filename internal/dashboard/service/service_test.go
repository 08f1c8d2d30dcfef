package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogservice "mobiliza/internal/catalog/service"
	catalogstore "mobiliza/internal/catalog/store"
	statusservice "mobiliza/internal/status/service"
	statusstore "mobiliza/internal/status/store"
	volunteermodels "mobiliza/internal/volunteer/models"
	volunteerstore "mobiliza/internal/volunteer/store"
	id "mobiliza/pkg/domain"
	"mobiliza/pkg/requestcontext"
)

type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	broken bool
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return nil, false, errors.New("connection refused")
	}
	value, ok := c.data[key]
	return value, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return errors.New("connection refused")
	}
	c.data[key] = value
	c.sets++
	return nil
}

type fixture struct {
	svc        *Service
	volunteers *volunteerstore.MemoryStore
	statuses   *statusservice.Service
	catalog    *catalogservice.Service
	cache      *fakeCache
}

func newFixture(t *testing.T, timezone string) *fixture {
	t.Helper()

	f := &fixture{
		volunteers: volunteerstore.NewMemoryStore(),
		statuses:   statusservice.NewService(statusstore.NewMemoryStore()),
		catalog:    catalogservice.NewService(catalogstore.NewMemoryStore()),
		cache:      newFakeCache(),
	}
	require.NoError(t, f.statuses.Seed(context.Background(), "INTERESSADA", "ATIVA"))

	f.svc = NewService(f.volunteers, f.statuses, f.catalog, Config{
		Timezone: timezone,
		CacheTTL: time.Minute,
	}, WithCache(f.cache))
	return f
}

func (f *fixture) addVolunteer(t *testing.T, statusName string, squadID *id.SquadID, createdAt time.Time) {
	t.Helper()
	status, err := f.statuses.GetByName(context.Background(), statusName)
	require.NoError(t, err)

	v := &volunteermodels.Volunteer{
		ID:        id.NewVolunteerID(),
		Name:      "Voluntária",
		Email:     id.NewVolunteerID().String() + "@example.com",
		StatusID:  status.ID,
		SquadID:   squadID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, f.volunteers.Create(context.Background(), v, &volunteermodels.StatusHistory{
		ID:          id.NewHistoryID(),
		VolunteerID: v.ID,
		StatusID:    status.ID,
		CreatedAt:   createdAt,
	}))
}

func TestStats(t *testing.T) {
	// 02:30 UTC on June 11 is 23:30 on June 10 in São Paulo.
	now := time.Date(2025, 6, 11, 2, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	t.Run("registered today follows the local civil day", func(t *testing.T) {
		f := newFixture(t, "America/Sao_Paulo")

		// 22:00 local on June 10: same civil day as "now".
		f.addVolunteer(t, "INTERESSADA", nil, time.Date(2025, 6, 11, 1, 0, 0, 0, time.UTC))
		// 23:00 local on June 9: the previous civil day.
		f.addVolunteer(t, "INTERESSADA", nil, time.Date(2025, 6, 10, 2, 0, 0, 0, time.UTC))

		stats, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, 1, stats.RegisteredToday)
	})

	t.Run("volunteers without a squad count in the total but not by squad", func(t *testing.T) {
		f := newFixture(t, "America/Sao_Paulo")
		squad, err := f.catalog.CreateSquad(context.Background(), "Squad Backend", nil)
		require.NoError(t, err)

		f.addVolunteer(t, "ATIVA", &squad.ID, now.Add(-time.Hour))
		f.addVolunteer(t, "ATIVA", nil, now.Add(-time.Hour))

		stats, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, map[string]int{"Squad Backend": 1}, stats.BySquad)
		assert.Equal(t, map[string]int{"ATIVA": 2}, stats.ByStatus)
	})

	t.Run("a fresh cache entry short-circuits recomputation", func(t *testing.T) {
		f := newFixture(t, "America/Sao_Paulo")
		f.addVolunteer(t, "INTERESSADA", nil, now.Add(-time.Hour))

		first, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, f.cache.sets)

		// New registrations are invisible until the entry expires.
		f.addVolunteer(t, "INTERESSADA", nil, now.Add(-time.Minute))
		second, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.Total, second.Total)
		assert.Equal(t, 1, f.cache.sets)
	})

	t.Run("a broken cache degrades to recomputing", func(t *testing.T) {
		f := newFixture(t, "America/Sao_Paulo")
		f.addVolunteer(t, "INTERESSADA", nil, now.Add(-time.Hour))
		f.cache.broken = true

		stats, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Total)
	})

	t.Run("unknown timezone falls back to fixed UTC-3", func(t *testing.T) {
		f := newFixture(t, "Not/AZone")

		// 23:30 at UTC-3, same as the São Paulo cases above.
		f.addVolunteer(t, "INTERESSADA", nil, time.Date(2025, 6, 11, 1, 0, 0, 0, time.UTC))
		f.addVolunteer(t, "INTERESSADA", nil, time.Date(2025, 6, 10, 2, 0, 0, 0, time.UTC))

		stats, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.RegisteredToday)
	})
}
