package cart

import (
	"context"
	"sync"
)

// memoryStorage holds the cart document in process memory. Useful for
// tests and for running the widget backend without any persistence.
type memoryStorage struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStorage creates an in-memory cart storage.
func NewMemoryStorage() Storage {
	return &memoryStorage{}
}

func (s *memoryStorage) Read(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *memoryStorage) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}
