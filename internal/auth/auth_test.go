package auth

import (
	"path/filepath"
	"testing"
)

type memRepo struct{ users []Traveler }

func (m *memRepo) LoadAll() ([]Traveler, error) { return append([]Traveler{}, m.users...), nil }
func (m *memRepo) Upsert(t Traveler) error {
	for i, x := range m.users {
		if x.ID == t.ID {
			m.users[i] = t
			return nil
		}
	}
	m.users = append(m.users, t)
	return nil
}
func (m *memRepo) Remove(id int64) error {
	out := m.users[:0]
	for _, x := range m.users {
		if x.ID != id {
			out = append(out, x)
		}
	}
	m.users = out
	return nil
}

func TestServiceMergesRepoAndEnv(t *testing.T) {
	repo := &memRepo{users: []Traveler{{ID: 10, Username: "alice"}}}
	svc, err := New(repo, []int64{20})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	if !svc.IsAllowed(10) {
		t.Fatal("repo preload not effective")
	}
	if !svc.IsAllowed(20) {
		t.Fatal("env list not merged")
	}
	if svc.IsAllowed(30) {
		t.Fatal("unknown user allowed")
	}

	if err := svc.Upsert(Traveler{ID: 30, Username: "bob"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !svc.IsAllowed(30) {
		t.Fatal("upsert not effective")
	}

	if err := svc.Remove(10); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if svc.IsAllowed(10) {
		t.Fatal("remove not effective")
	}

	if got := len(svc.List()); got != 2 {
		t.Fatalf("List() = %d users, want 2", got)
	}
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowlist.json")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	// A freshly touched (empty) file is an empty list.
	users, err := repo.LoadAll()
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("empty file yielded %d users", len(users))
	}

	if err := repo.Upsert(Traveler{ID: 1, Username: "alice"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(Traveler{ID: 2, Username: "bob"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(Traveler{ID: 1, Username: "alice2"}); err != nil {
		t.Fatalf("upsert update: %v", err)
	}

	// A second repo over the same file sees the persisted state.
	repo2, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	users, err = repo2.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}

	if err := repo2.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	users, _ = repo2.LoadAll()
	if len(users) != 1 || users[0].ID != 2 {
		t.Fatalf("after remove: %+v", users)
	}
}
