package store

import (
	"context"
	"sync"

	"github.com/2beens/mapty/internal/workout"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the encoded collection in memory, same as the other stores do
// on their medium, so callers never share record slices with it.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, records []workout.Record) error {
	data, err := encode(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemoryStore) Load(_ context.Context) ([]workout.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decode(s.data)
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
