package being

import (
	"context"
	"errors"
	"sort"
	"sync"

	"nuevoser/internal/model"
)

var ErrNotFound = errors.New("being not found")

// Repository is the single mutation gateway for the roster. The engine,
// the resolver, and the recovery loop all write through it; nothing else
// touches being state.
type Repository interface {
	Seed(ctx context.Context, userID string, bs []model.Being) error
	List(ctx context.Context, userID string) ([]model.Being, error)
	Get(ctx context.Context, userID string, id model.BeingID) (model.Being, bool, error)
	Update(ctx context.Context, userID string, b model.Being) (model.Being, error)
	UpdateMany(ctx context.Context, userID string, bs []model.Being) error
	ListByStatus(ctx context.Context, userID string, status model.BeingStatus) ([]model.Being, error)
	Users(ctx context.Context) ([]string, error)
}

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]map[model.BeingID]model.Being
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]map[model.BeingID]model.Being{}}
}

func (r *MemoryRepo) userLocked(userID string) map[model.BeingID]model.Being {
	us, ok := r.m[userID]
	if !ok {
		us = map[model.BeingID]model.Being{}
		r.m[userID] = us
	}
	return us
}

func (r *MemoryRepo) Seed(ctx context.Context, userID string, bs []model.Being) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	us := r.userLocked(userID)
	for _, b := range bs {
		us[b.ID] = b
	}
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]model.Being, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Being, 0, len(r.m[userID]))
	for _, b := range r.m[userID] {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID string, id model.BeingID) (model.Being, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.m[userID][id]
	return b, ok, nil
}

func (r *MemoryRepo) Update(ctx context.Context, userID string, b model.Being) (model.Being, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	us := r.userLocked(userID)
	if _, ok := us[b.ID]; !ok {
		return model.Being{}, ErrNotFound
	}
	us[b.ID] = b
	return b, nil
}

func (r *MemoryRepo) UpdateMany(ctx context.Context, userID string, bs []model.Being) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	us := r.userLocked(userID)
	for _, b := range bs {
		us[b.ID] = b
	}
	return nil
}

func (r *MemoryRepo) ListByStatus(ctx context.Context, userID string, status model.BeingStatus) ([]model.Being, error) {
	bs, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := bs[:0]
	for _, b := range bs {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Users(ctx context.Context) ([]string, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.m))
	for uid := range r.m {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out, nil
}
