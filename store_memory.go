package accounts

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used as the test double and for hosts
// that do not need durability across restarts.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: map[string][]byte{},
	}
}

func (s *MemoryStore) Get(_ context.Context, collection string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[collection]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, collection string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := make([]byte, len(value))
	copy(raw, value)
	s.data[collection] = raw
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, collection)
	return nil
}
