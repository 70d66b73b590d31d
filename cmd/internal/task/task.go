package task

import (
	"context"
	"errors"
	"time"
)

// Sentinel kinds, mirrored onto HTTP status codes by the handler.
var (
	ErrNotFound     = errors.New("task: not found")
	ErrInvalidInput = errors.New("task: invalid input")
)

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID         string
	OwnerID    string
	Title      string
	IsComplete bool
	CreatedAt  time.Time
}

// CreateInput describes a new task. IsComplete always starts false.
type CreateInput struct {
	OwnerID string
	Title   string
	Now     time.Time
}

// UpdateInput carries a partial task update. Nil fields are untouched.
type UpdateInput struct {
	Title      *string
	IsComplete *bool
}

// Store is the task persistence boundary.
//
// Get does not check ownership; callers enforce it so that "not yours" and
// "does not exist" can be distinguished where that matters.
type Store interface {
	Create(ctx context.Context, in CreateInput) (Task, error)
	Get(ctx context.Context, id string) (Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Task, error)
	Update(ctx context.Context, id string, in UpdateInput) (Task, error)
	Delete(ctx context.Context, id string) error

	// RemoveForOwner deletes every task owned by ownerID. Used when the
	// owning account is deleted.
	RemoveForOwner(ctx context.Context, ownerID string) error
}
