package store

import (
	"context"
	"sync"

	"mobiliza/internal/feedback/models"
	id "mobiliza/pkg/domain"
)

// MemoryStore is an in-memory Store for tests and local development.
// Feedback is kept in insertion order per volunteer.
type MemoryStore struct {
	mu          sync.RWMutex
	byVolunteer map[id.VolunteerID][]*models.Feedback
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byVolunteer: make(map[id.VolunteerID][]*models.Feedback),
	}
}

func (s *MemoryStore) Create(_ context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *feedback
	if feedback.AuthorUserID != nil {
		authorID := *feedback.AuthorUserID
		clone.AuthorUserID = &authorID
	}
	s.byVolunteer[feedback.VolunteerID] = append(s.byVolunteer[feedback.VolunteerID], &clone)
	return nil
}

func (s *MemoryStore) ListForVolunteer(_ context.Context, volunteerID id.VolunteerID) ([]*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.byVolunteer[volunteerID]
	out := make([]*models.Feedback, 0, len(stored))
	for _, feedback := range stored {
		clone := *feedback
		if feedback.AuthorUserID != nil {
			authorID := *feedback.AuthorUserID
			clone.AuthorUserID = &authorID
		}
		out = append(out, &clone)
	}
	return out, nil
}
