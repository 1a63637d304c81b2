package session

import (
	"context"
	"sync"

	"github.com/owenwexler/mockabase/internal/domain"
)

// MemoryStore keeps the session slot in memory only. Used by tests and by
// servers that don't need the session to survive restarts.
type MemoryStore struct {
	mu      sync.Mutex
	current *domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Create(_ context.Context, sess domain.Session) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &sess
	return sess
}

func (s *MemoryStore) Current(_ context.Context) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}

func (s *MemoryStore) Destroy(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
