package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// InMemoryStore is a map-backed Store for tests and DB-less development runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]User // keyed by user id
}

// NewInMemoryStore returns an empty in-memory user store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]User)}
}

func (s *InMemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "username is required"}
	}
	if in.PasswordHash == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password hash is required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return User{}, OpError{Op: op, Kind: err, Msg: "id generation failed"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return User{}, ConflictError{Op: op, Field: "username"}
		}
	}

	u := User{
		ID:           id,
		Username:     username,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
	}
	s.users[id] = u
	return u, nil
}

func (s *InMemoryStore) GetUserByID(ctx context.Context, id string) (User, error) {
	const op = "identity.GetUserByID"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, OpError{Op: op, Kind: ErrNotFound}
	}
	return u, nil
}

func (s *InMemoryStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	const op = "identity.GetUserByUsername"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, OpError{Op: op, Kind: ErrNotFound}
}

func (s *InMemoryStore) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (User, error) {
	const op = "identity.UpdateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, OpError{Op: op, Kind: ErrNotFound}
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "username is required"}
		}
		for otherID, other := range s.users {
			if otherID != id && other.Username == username {
				return User{}, ConflictError{Op: op, Field: "username"}
			}
		}
		u.Username = username
	}
	if in.PasswordHash != nil {
		if *in.PasswordHash == "" {
			return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password hash is required"}
		}
		u.PasswordHash = *in.PasswordHash
	}

	s.users[id] = u
	return u, nil
}

func (s *InMemoryStore) DeleteUser(ctx context.Context, id string) error {
	const op = "identity.DeleteUser"

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return OpError{Op: op, Kind: ErrNotFound}
	}
	delete(s.users, id)
	return nil
}
