package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository stores the allowlist as a pretty-printed JSON array. Writes
// rewrite the whole file; the list stays small enough for that.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	f.Close()
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) LoadAll() ([]Traveler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *FileRepository) Upsert(t Traveler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadLocked()
	if err != nil {
		return err
	}
	updated := false
	for i, u := range users {
		if u.ID == t.ID {
			users[i] = t
			updated = true
			break
		}
	}
	if !updated {
		users = append(users, t)
	}
	return r.saveLocked(users)
}

func (r *FileRepository) Remove(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadLocked()
	if err != nil {
		return err
	}
	out := users[:0]
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return r.saveLocked(out)
}

// loadLocked treats an empty or malformed file as an empty list, so a
// truncated write never locks everyone out permanently.
func (r *FileRepository) loadLocked() ([]Traveler, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read allowlist: %w", err)
	}
	var users []Traveler
	if err := json.Unmarshal(data, &users); err != nil {
		return []Traveler{}, nil
	}
	return users, nil
}

func (r *FileRepository) saveLocked(users []Traveler) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}
