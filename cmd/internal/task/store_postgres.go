package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskdeck/cmd/identity"
)

// PostgresStore persists tasks in the tasks table. The pool is owned by the
// caller and must not be closed here.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore over an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("task: nil pool")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, in CreateInput) (Task, error) {
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

	const q = `
INSERT INTO tasks (id, owner_id, title, is_complete, created_at)
VALUES ($1, $2, $3, FALSE, $4)`

	if _, err := s.pool.Exec(ctx, q, id, in.OwnerID, title, now); err != nil {
		return Task{}, fmt.Errorf("task: insert: %w", err)
	}
	return Task{ID: id, OwnerID: in.OwnerID, Title: title, CreatedAt: now}, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Task, error) {
	const q = `
SELECT id, owner_id, title, is_complete, created_at
FROM tasks
WHERE id = $1`

	var t Task
	err := s.pool.QueryRow(ctx, q, id).
		Scan(&t.ID, &t.OwnerID, &t.Title, &t.IsComplete, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("task: query: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	const q = `
SELECT id, owner_id, title, is_complete, created_at
FROM tasks
WHERE owner_id = $1
ORDER BY id`

	rows, err := s.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("task: query list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.IsComplete, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("task: scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task: iterate: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, in UpdateInput) (Task, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	var title *string
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		title = &trimmed
	}

	const q = `
UPDATE tasks
SET title       = COALESCE($2, title),
    is_complete = COALESCE($3, is_complete)
WHERE id = $1
RETURNING id, owner_id, title, is_complete, created_at`

	var t Task
	err := s.pool.QueryRow(ctx, q, id, title, in.IsComplete).
		Scan(&t.ID, &t.OwnerID, &t.Title, &t.IsComplete, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("task: update: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("task: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RemoveForOwner(ctx context.Context, ownerID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("task: delete by owner: %w", err)
	}
	return nil
}
