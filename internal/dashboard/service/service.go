// Package service aggregates volunteer counts for the operator dashboard.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	catalogmodels "mobiliza/internal/catalog/models"
	statusmodels "mobiliza/internal/status/models"
	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
	"mobiliza/pkg/requestcontext"
)

// fallbackOffsetSeconds is the fixed UTC-3 offset used when the configured
// timezone database entry cannot be loaded.
const fallbackOffsetSeconds = -3 * 60 * 60

// Counter provides volunteer aggregates. The volunteer store implements it.
type Counter interface {
	CountTotal(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountByStatus(ctx context.Context) (map[id.StatusID]int, error)
	CountBySquad(ctx context.Context) (map[id.SquadID]int, error)
	CountByVolunteerType(ctx context.Context) (map[id.VolunteerTypeID]int, error)
}

// StatusDirectory resolves status IDs to names.
type StatusDirectory interface {
	GetByID(ctx context.Context, statusID id.StatusID) (*statusmodels.Status, error)
}

// Catalog resolves squad and volunteer type IDs to names.
type Catalog interface {
	GetSquad(ctx context.Context, squadID id.SquadID) (*catalogmodels.Squad, error)
	GetVolunteerType(ctx context.Context, typeID id.VolunteerTypeID) (*catalogmodels.VolunteerType, error)
}

// Cache stores rendered stats. A miss returns ok=false; errors mean the cache
// is unreachable, which degrades to recomputing.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config tunes the dashboard aggregator.
type Config struct {
	// Timezone defines the civil day for the "registered today" window.
	Timezone string
	CacheTTL time.Duration
}

// Stats is the dashboard aggregate. Map keys are display names, not IDs.
type Stats struct {
	Total           int            `json:"total"`
	RegisteredToday int            `json:"registered_today"`
	ByStatus        map[string]int `json:"by_status"`
	BySquad         map[string]int `json:"by_squad"`
	ByVolunteerType map[string]int `json:"by_volunteer_type"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

const cacheKey = "dashboard:stats"

// Service computes dashboard stats.
type Service struct {
	counter  Counter
	statuses StatusDirectory
	catalog  Catalog
	cache    Cache
	cfg      Config
	location *time.Location
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCache sets the stats cache. Without one every call recomputes.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// NewService creates a dashboard service. When the configured timezone cannot
// be loaded the service falls back to a fixed UTC-3 offset.
func NewService(counter Counter, statuses StatusDirectory, catalog Catalog, cfg Config, opts ...Option) *Service {
	s := &Service{
		counter:  counter,
		statuses: statuses,
		catalog:  catalog,
		cfg:      cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		s.logger.Warn("timezone not loadable, falling back to fixed UTC-3",
			"timezone", cfg.Timezone,
			"error", err,
		)
		location = time.FixedZone("-03", fallbackOffsetSeconds)
	}
	s.location = location
	return s
}

// Stats returns the dashboard aggregate, served from cache when fresh. A
// broken cache degrades to recomputing rather than failing the request.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			s.logger.WarnContext(ctx, "stats cache read failed, recomputing", "error", err)
		} else if ok {
			var stats Stats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
			s.logger.WarnContext(ctx, "stats cache entry unreadable, recomputing")
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, cacheKey, encoded, s.cfg.CacheTTL); err != nil {
				s.logger.WarnContext(ctx, "stats cache write failed", "error", err)
			}
		}
	}
	return stats, nil
}

func (s *Service) compute(ctx context.Context) (*Stats, error) {
	now := requestcontext.Now(ctx)
	stats := &Stats{GeneratedAt: now}

	var (
		byStatus map[id.StatusID]int
		bySquad  map[id.SquadID]int
		byType   map[id.VolunteerTypeID]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.counter.CountTotal(gctx)
		stats.Total = total
		return err
	})
	g.Go(func() error {
		today, err := s.counter.CountCreatedSince(gctx, s.startOfDay(now))
		stats.RegisteredToday = today
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.counter.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bySquad, err = s.counter.CountBySquad(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = s.counter.CountByVolunteerType(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate volunteers")
	}

	stats.ByStatus = make(map[string]int, len(byStatus))
	for statusID, count := range byStatus {
		status, err := s.statuses.GetByID(ctx, statusID)
		if err != nil {
			return nil, err
		}
		stats.ByStatus[status.Name] = count
	}

	stats.BySquad = make(map[string]int, len(bySquad))
	for squadID, count := range bySquad {
		squad, err := s.catalog.GetSquad(ctx, squadID)
		if err != nil {
			return nil, err
		}
		stats.BySquad[squad.Name] = count
	}

	stats.ByVolunteerType = make(map[string]int, len(byType))
	for typeID, count := range byType {
		vtype, err := s.catalog.GetVolunteerType(ctx, typeID)
		if err != nil {
			return nil, err
		}
		stats.ByVolunteerType[vtype.Name] = count
	}

	return stats, nil
}

// startOfDay returns the instant the current civil day began in the
// configured timezone.
func (s *Service) startOfDay(now time.Time) time.Time {
	local := now.In(s.location)
	year, month, day := local.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, s.location)
}
