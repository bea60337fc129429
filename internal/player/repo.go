package player

import (
	"context"
	"errors"
	"sync"
)

var ErrInsufficientEnergy = errors.New("insufficient user energy")

// UserState is the progression economy of one player.
type UserState struct {
	Energy        int `json:"energy"`
	MaxEnergy     int `json:"maxEnergy"`
	XP            int `json:"xp"`
	Consciousness int `json:"consciousness"`
}

// DefaultState is the economy of a fresh account.
func DefaultState() UserState {
	return UserState{Energy: 100, MaxEnergy: 100}
}

// Repository exposes the accessor operations the engine mutates the
// economy through. Energy never leaves [0, MaxEnergy].
type Repository interface {
	Get(ctx context.Context, userID string) (UserState, error)
	Set(ctx context.Context, userID string, s UserState) error
	ConsumeEnergy(ctx context.Context, userID string, n int) error
	AddEnergy(ctx context.Context, userID string, n int) error
	AddXP(ctx context.Context, userID string, n int) error
	AddConsciousness(ctx context.Context, userID string, n int) error
}

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]UserState
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]UserState{}}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (UserState, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.m[userID]
	if !ok {
		return DefaultState(), nil
	}
	return s, nil
}

func (r *MemoryRepo) Set(ctx context.Context, userID string, s UserState) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[userID] = s
	return nil
}

func (r *MemoryRepo) mutate(userID string, f func(*UserState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.m[userID]
	if !ok {
		s = DefaultState()
	}
	if err := f(&s); err != nil {
		return err
	}
	r.m[userID] = s
	return nil
}

func (r *MemoryRepo) ConsumeEnergy(ctx context.Context, userID string, n int) error {
	_ = ctx
	return r.mutate(userID, func(s *UserState) error { return consumeEnergy(s, n) })
}

func (r *MemoryRepo) AddEnergy(ctx context.Context, userID string, n int) error {
	_ = ctx
	return r.mutate(userID, func(s *UserState) error { addEnergy(s, n); return nil })
}

func (r *MemoryRepo) AddXP(ctx context.Context, userID string, n int) error {
	_ = ctx
	return r.mutate(userID, func(s *UserState) error { s.XP += n; return nil })
}

func (r *MemoryRepo) AddConsciousness(ctx context.Context, userID string, n int) error {
	_ = ctx
	return r.mutate(userID, func(s *UserState) error { s.Consciousness += n; return nil })
}

func consumeEnergy(s *UserState, n int) error {
	if s.Energy < n {
		return ErrInsufficientEnergy
	}
	s.Energy -= n
	return nil
}

func addEnergy(s *UserState, n int) {
	s.Energy += n
	if s.Energy > s.MaxEnergy {
		s.Energy = s.MaxEnergy
	}
	if s.Energy < 0 {
		s.Energy = 0
	}
}
