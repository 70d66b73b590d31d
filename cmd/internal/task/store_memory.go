package task

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taskdeck/cmd/identity"
)

// InMemoryStore is a map-backed Store for tests and DB-less runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// NewInMemoryStore returns an empty in-memory task store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tasks: make(map[string]Task)}
}

func (s *InMemoryStore) Create(ctx context.Context, in CreateInput) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.OwnerID == "" {
		return Task{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := identity.NewULID(now)
	if err != nil {
		return Task{}, fmt.Errorf("task: id generation failed: %w", err)
	}

	t := Task{ID: id, OwnerID: in.OwnerID, Title: title, CreatedAt: now}

	s.mu.Lock()
	s.tasks[id] = t
	s.mu.Unlock()
	return t, nil
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (s *InMemoryStore) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Task
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	// ULIDs sort by creation time.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Update(ctx context.Context, id string, in UpdateInput) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		t.Title = title
	}
	if in.IsComplete != nil {
		t.IsComplete = *in.IsComplete
	}

	s.tasks[id] = t
	return t, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *InMemoryStore) RemoveForOwner(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		if t.OwnerID == ownerID {
			delete(s.tasks, id)
		}
	}
	return nil
}
