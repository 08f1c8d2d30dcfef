package store

import (
	"context"
	"sort"
	"sync"

	"mobiliza/internal/status/models"
	id "mobiliza/pkg/domain"
	"mobiliza/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[id.StatusID]*models.Status
	idByName map[string]id.StatusID
}

// NewMemoryStore creates an empty in-memory status store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[id.StatusID]*models.Status),
		idByName: make(map[string]id.StatusID),
	}
}

func (s *MemoryStore) Create(_ context.Context, status *models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.idByName[status.Name]; exists {
		return sentinel.ErrConflict
	}
	copied := *status
	s.byID[status.ID] = &copied
	s.idByName[status.Name] = status.ID
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, statusID id.StatusID) (*models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.byID[statusID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *status
	return &copied, nil
}

func (s *MemoryStore) GetByName(_ context.Context, name string) (*models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	statusID, ok := s.idByName[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[statusID]
	return &copied, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Status, 0, len(s.byID))
	for _, status := range s.byID {
		copied := *status
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
