package player

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

type fileState struct {
	Users map[string]UserState `json:"users"`
}

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
		path: filepath.Join(dataDir, "players.json"),
		s:    fileState{Users: map[string]UserState{}},
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
		loaded.Users = map[string]UserState{}
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

func (r *FileRepo) Get(ctx context.Context, userID string) (UserState, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.s.Users[userID]
	if !ok {
		return DefaultState(), nil
	}
	return s, nil
}

func (r *FileRepo) Set(ctx context.Context, userID string, s UserState) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.s.Users[userID] = s
	return r.saveLocked()
}

func (r *FileRepo) mutate(userID string, f func(*UserState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.s.Users[userID]
	if !ok {
		s = DefaultState()
	}
	if err := f(&s); err != nil {
		return err
	}
	r.s.Users[userID] = s
	return r.saveLocked()
}

func (r *FileRepo) ConsumeEnergy(ctx context.Context, userID string, n int) error {
	_ = ctx
	return r.mutate(userID, func(s *UserState) error { return consumeEnergy(s, n) })
}

func (r *FileRepo) AddEnergy(ctx context.Context, userID string, n int) error {
	_ = ctx
	return r.mutate(userID, func(s *UserState) error { addEnergy(s, n); return nil })
}

func (r *FileRepo) AddXP(ctx context.Context, userID string, n int) error {
	_ = ctx
	return r.mutate(userID, func(s *UserState) error { s.XP += n; return nil })
}

func (r *FileRepo) AddConsciousness(ctx context.Context, userID string, n int) error {
	_ = ctx
	return r.mutate(userID, func(s *UserState) error { s.Consciousness += n; return nil })
}
