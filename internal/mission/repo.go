package mission

import (
	"context"
	"errors"
	"sort"
	"sync"

	"nuevoser/internal/model"
)

var ErrNotFound = errors.New("mission not found")

// Store is the durable per-user mission state: the active set, the capped
// history log, and the success-streak counter.
//
// Archive and Discard are the only ways a mission leaves the active set.
// Archive removes the mission, appends the history entry, and sets the
// streak as one transaction; it reports false when the mission is no
// longer active, which callers treat as an idempotent no-op.
type Store interface {
	Active(ctx context.Context, userID string) ([]model.Mission, error)
	GetActive(ctx context.Context, userID string, id model.MissionID) (model.Mission, bool, error)
	PutActive(ctx context.Context, userID string, m model.Mission) error
	Archive(ctx context.Context, userID string, id model.MissionID, entry model.HistoryEntry, streak int) (bool, error)
	Discard(ctx context.Context, userID string, id model.MissionID) (bool, error)
	History(ctx context.Context, userID string) ([]model.HistoryEntry, error)
	Streak(ctx context.Context, userID string) (int, error)
	Users(ctx context.Context) ([]string, error)
}

type userState struct {
	active  map[model.MissionID]model.Mission
	history []model.HistoryEntry
	streak  int
}

// MemoryStore keeps mission state in process memory. Used in tests and as
// the dev-mode default.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]*userState
	historyCap int
}

func NewMemoryStore(historyCap int) *MemoryStore {
	return &MemoryStore{
		users:      map[string]*userState{},
		historyCap: historyCap,
	}
}

func (s *MemoryStore) userLocked(userID string) *userState {
	us, ok := s.users[userID]
	if !ok {
		us = &userState{active: map[model.MissionID]model.Mission{}}
		s.users[userID] = us
	}
	return us
}

func (s *MemoryStore) Active(ctx context.Context, userID string) ([]model.Mission, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	us, ok := s.users[userID]
	if !ok {
		return []model.Mission{}, nil
	}
	out := make([]model.Mission, 0, len(us.active))
	for _, m := range us.active {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (s *MemoryStore) GetActive(ctx context.Context, userID string, id model.MissionID) (model.Mission, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	us, ok := s.users[userID]
	if !ok {
		return model.Mission{}, false, nil
	}
	m, ok := us.active[id]
	return m, ok, nil
}

func (s *MemoryStore) PutActive(ctx context.Context, userID string, m model.Mission) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userLocked(userID).active[m.ID] = m
	return nil
}

func (s *MemoryStore) Archive(ctx context.Context, userID string, id model.MissionID, entry model.HistoryEntry, streak int) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	us := s.userLocked(userID)
	if _, ok := us.active[id]; !ok {
		return false, nil
	}
	delete(us.active, id)
	us.history = prepend(us.history, entry, s.historyCap)
	us.streak = streak
	return true, nil
}

func (s *MemoryStore) Discard(ctx context.Context, userID string, id model.MissionID) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	us := s.userLocked(userID)
	if _, ok := us.active[id]; !ok {
		return false, nil
	}
	delete(us.active, id)
	return true, nil
}

func (s *MemoryStore) History(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	us, ok := s.users[userID]
	if !ok {
		return []model.HistoryEntry{}, nil
	}
	out := make([]model.HistoryEntry, len(us.history))
	copy(out, us.history)
	return out, nil
}

func (s *MemoryStore) Streak(ctx context.Context, userID string) (int, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	us, ok := s.users[userID]
	if !ok {
		return 0, nil
	}
	return us.streak, nil
}

func (s *MemoryStore) Users(ctx context.Context) ([]string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.users))
	for uid := range s.users {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out, nil
}

// prepend inserts entry at the front, most-recent-first, trimming to cap.
func prepend(h []model.HistoryEntry, entry model.HistoryEntry, cap int) []model.HistoryEntry {
	h = append([]model.HistoryEntry{entry}, h...)
	if cap > 0 && len(h) > cap {
		h = h[:cap]
	}
	return h
}
