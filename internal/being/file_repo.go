package being

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"nuevoser/internal/model"
)

type fileState struct {
	Users map[string]map[model.BeingID]model.Being `json:"users"`
}

// FileRepo is a JSON-file-backed roster repository. Every write persists
// the whole state under one lock; a failed save leaves the in-memory copy
// ahead of disk, so callers treat save errors as fatal for the operation.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path: filepath.Join(dataDir, "beings.json"),
		s:    fileState{Users: map[string]map[model.BeingID]model.Being{}},
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Users == nil {
		loaded.Users = map[string]map[model.BeingID]model.Being{}
	}
	r.s = loaded
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o644)
}

func (r *FileRepo) userLocked(userID string) map[model.BeingID]model.Being {
	us, ok := r.s.Users[userID]
	if !ok {
		us = map[model.BeingID]model.Being{}
		r.s.Users[userID] = us
	}
	return us
}

func (r *FileRepo) Seed(ctx context.Context, userID string, bs []model.Being) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	us := r.userLocked(userID)
	for _, b := range bs {
		us[b.ID] = b
	}
	return r.saveLocked()
}

func (r *FileRepo) List(ctx context.Context, userID string) ([]model.Being, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Being, 0, len(r.s.Users[userID]))
	for _, b := range r.s.Users[userID] {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FileRepo) Get(ctx context.Context, userID string, id model.BeingID) (model.Being, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.s.Users[userID][id]
	return b, ok, nil
}

func (r *FileRepo) Update(ctx context.Context, userID string, b model.Being) (model.Being, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	us := r.userLocked(userID)
	if _, ok := us[b.ID]; !ok {
		return model.Being{}, ErrNotFound
	}
	us[b.ID] = b
	if err := r.saveLocked(); err != nil {
		return model.Being{}, err
	}
	return b, nil
}

func (r *FileRepo) UpdateMany(ctx context.Context, userID string, bs []model.Being) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	us := r.userLocked(userID)
	for _, b := range bs {
		us[b.ID] = b
	}
	return r.saveLocked()
}

func (r *FileRepo) ListByStatus(ctx context.Context, userID string, status model.BeingStatus) ([]model.Being, error) {
	bs, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Being, 0, len(bs))
	for _, b := range bs {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *FileRepo) Users(ctx context.Context) ([]string, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.s.Users))
	for uid := range r.s.Users {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out, nil
}
