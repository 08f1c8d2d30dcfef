package store

import (
	"context"
	"sort"
	"sync"

	"mobiliza/internal/catalog/models"
	id "mobiliza/pkg/domain"
	"mobiliza/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu             sync.RWMutex
	projects       map[id.ProjectID]*models.Project
	squads         map[id.SquadID]*models.Squad
	volunteerTypes map[id.VolunteerTypeID]*models.VolunteerType
	verticals      map[id.VerticalID]*models.Vertical
	names          map[string]bool
}

// NewMemoryStore creates an empty in-memory catalog store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:       make(map[id.ProjectID]*models.Project),
		squads:         make(map[id.SquadID]*models.Squad),
		volunteerTypes: make(map[id.VolunteerTypeID]*models.VolunteerType),
		verticals:      make(map[id.VerticalID]*models.Vertical),
		names:          make(map[string]bool),
	}
}

// claimName reserves a name within an entity kind. Caller holds the lock.
func (s *MemoryStore) claimName(kind, name string) error {
	key := kind + ":" + name
	if s.names[key] {
		return sentinel.ErrConflict
	}
	s.names[key] = true
	return nil
}

func (s *MemoryStore) CreateProject(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claimName("project", project.Name); err != nil {
		return err
	}
	copied := *project
	s.projects[project.ID] = &copied
	return nil
}

func (s *MemoryStore) GetProject(_ context.Context, projectID id.ProjectID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[projectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *project
	return &copied, nil
}

func (s *MemoryStore) ListProjects(_ context.Context) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Project, 0, len(s.projects))
	for _, project := range s.projects {
		copied := *project
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateSquad(_ context.Context, squad *models.Squad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claimName("squad", squad.Name); err != nil {
		return err
	}
	copied := *squad
	s.squads[squad.ID] = &copied
	return nil
}

func (s *MemoryStore) GetSquad(_ context.Context, squadID id.SquadID) (*models.Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	squad, ok := s.squads[squadID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *squad
	return &copied, nil
}

func (s *MemoryStore) ListSquads(_ context.Context) ([]*models.Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Squad, 0, len(s.squads))
	for _, squad := range s.squads {
		copied := *squad
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateVolunteerType(_ context.Context, vtype *models.VolunteerType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claimName("volunteer_type", vtype.Name); err != nil {
		return err
	}
	copied := *vtype
	s.volunteerTypes[vtype.ID] = &copied
	return nil
}

func (s *MemoryStore) GetVolunteerType(_ context.Context, typeID id.VolunteerTypeID) (*models.VolunteerType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vtype, ok := s.volunteerTypes[typeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *vtype
	return &copied, nil
}

func (s *MemoryStore) ListVolunteerTypes(_ context.Context) ([]*models.VolunteerType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.VolunteerType, 0, len(s.volunteerTypes))
	for _, vtype := range s.volunteerTypes {
		copied := *vtype
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateVertical(_ context.Context, vertical *models.Vertical) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claimName("vertical", vertical.Name); err != nil {
		return err
	}
	copied := *vertical
	s.verticals[vertical.ID] = &copied
	return nil
}

func (s *MemoryStore) GetVertical(_ context.Context, verticalID id.VerticalID) (*models.Vertical, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vertical, ok := s.verticals[verticalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *vertical
	return &copied, nil
}

func (s *MemoryStore) ListVerticals(_ context.Context) ([]*models.Vertical, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Vertical, 0, len(s.verticals))
	for _, vertical := range s.verticals {
		copied := *vertical
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
