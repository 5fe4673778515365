package auth

import "sync"

// Traveler is one person allowed to talk to the bot.
type Traveler struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Repository persists the allowlist between restarts.
type Repository interface {
	LoadAll() ([]Traveler, error)
	Upsert(t Traveler) error
	Remove(id int64) error
}

// Service answers "may this Telegram user talk to the bot". The in-memory
// map is the source of truth at runtime; the repository is write-through.
type Service struct {
	mu      sync.RWMutex
	repo    Repository
	allowed map[int64]Traveler
}

// New builds the allowlist from the repository plus the IDs configured in
// the environment. Env IDs carry no profile data until the user first writes.
func New(repo Repository, initial []int64) (*Service, error) {
	s := &Service{repo: repo, allowed: make(map[int64]Traveler)}
	if repo != nil {
		users, err := repo.LoadAll()
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			s.allowed[u.ID] = u
		}
	}
	for _, id := range initial {
		if _, ok := s.allowed[id]; !ok {
			s.allowed[id] = Traveler{ID: id}
		}
	}
	return s, nil
}

func (s *Service) IsAllowed(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.allowed[id]
	return ok
}

func (s *Service) Upsert(t Traveler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowed[t.ID] = t
	if s.repo != nil {
		return s.repo.Upsert(t)
	}
	return nil
}

func (s *Service) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.allowed, id)
	if s.repo != nil {
		return s.repo.Remove(id)
	}
	return nil
}

func (s *Service) List() []Traveler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Traveler, 0, len(s.allowed))
	for _, u := range s.allowed {
		out = append(out, u)
	}
	return out
}
