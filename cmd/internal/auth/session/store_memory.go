package session

import (
	"context"
	"sync"
)

// InMemoryStore keeps record lists in a map for tests and DB-less runs.
// A single mutex serializes Mutate across all users; contention is not a
// concern at test scale.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string][]Record
}

// NewInMemoryStore returns an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string][]Record)}
}

func (s *InMemoryStore) Records(ctx context.Context, userID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.records[userID]))
	copy(out, s.records[userID])
	return out, nil
}

func (s *InMemoryStore) Mutate(ctx context.Context, userID string, fn func(records []Record) ([]Record, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := make([]Record, len(s.records[userID]))
	copy(current, s.records[userID])

	next, err := fn(current)
	if err != nil {
		return err
	}

	if len(next) == 0 {
		delete(s.records, userID)
		return nil
	}
	s.records[userID] = next
	return nil
}
