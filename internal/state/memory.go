package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStore holds the dispatch date in process memory. Used in tests and
// for one-off runs where persistence does not matter.
type MemoryStore struct {
	mu   sync.Mutex
	day  time.Time
	set  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LastSent(ctx context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day, s.set, nil
}

func (s *MemoryStore) SetLastSent(ctx context.Context, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.day = day
	s.set = true
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
