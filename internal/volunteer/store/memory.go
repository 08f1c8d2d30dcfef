package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mobiliza/internal/volunteer/models"
	id "mobiliza/pkg/domain"
	"mobiliza/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests and local development. A single
// mutex serializes all mutations, which satisfies the per-volunteer
// serialization contract trivially.
type MemoryStore struct {
	mu         sync.RWMutex
	volunteers map[id.VolunteerID]*models.Volunteer
	byEmail    map[string]id.VolunteerID
	byToken    map[string]id.VolunteerID
	history    map[id.VolunteerID][]*models.StatusHistory
}

// NewMemoryStore creates an empty in-memory volunteer store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		volunteers: make(map[id.VolunteerID]*models.Volunteer),
		byEmail:    make(map[string]id.VolunteerID),
		byToken:    make(map[string]id.VolunteerID),
		history:    make(map[id.VolunteerID][]*models.StatusHistory),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *MemoryStore) Create(_ context.Context, volunteer *models.Volunteer, first *models.StatusHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(volunteer.Email)
	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrConflict
	}
	s.volunteers[volunteer.ID] = volunteer.Clone()
	s.byEmail[key] = volunteer.ID
	record := *first
	s.history[volunteer.ID] = append(s.history[volunteer.ID], &record)
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, volunteerID id.VolunteerID) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	volunteer, ok := s.volunteers[volunteerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return volunteer.Clone(), nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	volunteerID, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.volunteers[volunteerID].Clone(), nil
}

func (s *MemoryStore) GetByEditToken(_ context.Context, token string) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	volunteerID, ok := s.byToken[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.volunteers[volunteerID].Clone(), nil
}

func (s *MemoryStore) List(_ context.Context, filter ListFilter) ([]*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Volunteer
	for _, volunteer := range s.volunteers {
		if filter.StatusID != nil && volunteer.StatusID != *filter.StatusID {
			continue
		}
		if filter.SquadID != nil && (volunteer.SquadID == nil || *volunteer.SquadID != *filter.SquadID) {
			continue
		}
		out = append(out, volunteer.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Transition(_ context.Context, volunteerID id.VolunteerID, record *models.StatusHistory) (*models.Volunteer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	volunteer, ok := s.volunteers[volunteerID]
	if !ok {
		return nil, false, sentinel.ErrNotFound
	}
	if volunteer.StatusID == record.StatusID {
		return volunteer.Clone(), false, nil
	}
	volunteer.StatusID = record.StatusID
	volunteer.UpdatedAt = record.CreatedAt
	copied := *record
	s.history[volunteerID] = append(s.history[volunteerID], &copied)
	return volunteer.Clone(), true, nil
}

func (s *MemoryStore) Execute(_ context.Context, volunteerID id.VolunteerID, apply func(*models.Volunteer) error) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	volunteer, ok := s.volunteers[volunteerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := volunteer.Clone()
	if err := apply(working); err != nil {
		return nil, err
	}
	s.reindex(volunteer, working)
	s.volunteers[volunteerID] = working
	return working.Clone(), nil
}

// reindex keeps the email and token lookups consistent after a mutation.
// Caller holds the lock.
func (s *MemoryStore) reindex(before, after *models.Volunteer) {
	if emailKey(before.Email) != emailKey(after.Email) {
		delete(s.byEmail, emailKey(before.Email))
		s.byEmail[emailKey(after.Email)] = after.ID
	}
	if before.EditToken != nil && (after.EditToken == nil || *before.EditToken != *after.EditToken) {
		delete(s.byToken, *before.EditToken)
	}
	if after.EditToken != nil {
		s.byToken[*after.EditToken] = after.ID
	}
}

func (s *MemoryStore) SetEditToken(_ context.Context, volunteerID id.VolunteerID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	volunteer, ok := s.volunteers[volunteerID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if volunteer.EditToken != nil {
		delete(s.byToken, *volunteer.EditToken)
	}
	volunteer.EditToken = &token
	volunteer.EditTokenExpiresAt = &expiresAt
	s.byToken[token] = volunteerID
	return nil
}

func (s *MemoryStore) MarkInviteSent(_ context.Context, volunteerID id.VolunteerID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	volunteer, ok := s.volunteers[volunteerID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if volunteer.DiscordInviteSent {
		return false, nil
	}
	volunteer.DiscordInviteSent = true
	return true, nil
}

func (s *MemoryStore) ListHistory(_ context.Context, volunteerID id.VolunteerID) ([]*models.StatusHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.history[volunteerID]
	out := make([]*models.StatusHistory, 0, len(records))
	for _, record := range records {
		copied := *record
		out = append(out, &copied)
	}
	return out, nil
}

func (s *MemoryStore) CountTotal(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.volunteers), nil
}

func (s *MemoryStore) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, volunteer := range s.volunteers {
		if !volunteer.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) CountByStatus(_ context.Context) (map[id.StatusID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.StatusID]int)
	for _, volunteer := range s.volunteers {
		out[volunteer.StatusID]++
	}
	return out, nil
}

func (s *MemoryStore) CountBySquad(_ context.Context) (map[id.SquadID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.SquadID]int)
	for _, volunteer := range s.volunteers {
		if volunteer.SquadID != nil {
			out[*volunteer.SquadID]++
		}
	}
	return out, nil
}

func (s *MemoryStore) CountByVolunteerType(_ context.Context) (map[id.VolunteerTypeID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.VolunteerTypeID]int)
	for _, volunteer := range s.volunteers {
		if volunteer.VolunteerTypeID != nil {
			out[*volunteer.VolunteerTypeID]++
		}
	}
	return out, nil
}
