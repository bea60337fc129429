package crisis

import (
	"context"
	"sort"
	"sync"

	"nuevoser/internal/model"
)

// Repository is the crisis source. Crises are supplied externally and are
// read-only to the mission engine.
type Repository interface {
	Seed(ctx context.Context, cs []model.Crisis) error
	List(ctx context.Context) ([]model.Crisis, error)
	Get(ctx context.Context, id model.CrisisID) (model.Crisis, bool, error)
}

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[model.CrisisID]model.Crisis
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[model.CrisisID]model.Crisis{}}
}

func (r *MemoryRepo) Seed(ctx context.Context, cs []model.Crisis) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range cs {
		r.m[c.ID] = c
	}
	return nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]model.Crisis, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Crisis, 0, len(r.m))
	for _, c := range r.m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id model.CrisisID) (model.Crisis, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.m[id]
	return c, ok, nil
}
