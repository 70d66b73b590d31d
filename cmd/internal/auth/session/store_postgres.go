package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists refresh-token records in the refresh_tokens table.
//
// Mutate runs inside a transaction and takes SELECT ... FOR UPDATE on the
// owning user row, so concurrent rewrites of the same user's list are
// serialized while different users proceed in parallel. The pool is owned
// by the caller and must not be closed here.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore over an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("session: nil pool")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Records(ctx context.Context, userID string) ([]Record, error) {
	const q = `
SELECT token_hash, expires_on
FROM refresh_tokens
WHERE user_id = $1
ORDER BY created_at`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("session: query records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Hash, &r.ExpiresOn); err != nil {
			return nil, fmt.Errorf("session: scan record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: iterate records: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Mutate(ctx context.Context, userID string, fn func(records []Record) ([]Record, error)) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("session: begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Lock the user row so this rewrite sees, and is seen by, every other
	// rewrite for the same user.
	var lockedID string
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserUnknown
		}
		return fmt.Errorf("session: lock user: %w", err)
	}

	rows, err := tx.Query(ctx, `
SELECT token_hash, expires_on
FROM refresh_tokens
WHERE user_id = $1
ORDER BY created_at`, userID)
	if err != nil {
		return fmt.Errorf("session: query records: %w", err)
	}

	var current []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Hash, &r.ExpiresOn); err != nil {
			rows.Close()
			return fmt.Errorf("session: scan record: %w", err)
		}
		current = append(current, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("session: iterate records: %w", err)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("session: clear records: %w", err)
	}
	for _, r := range next {
		_, err := tx.Exec(ctx, `
INSERT INTO refresh_tokens (user_id, token_hash, expires_on)
VALUES ($1, $2, $3)`, userID, r.Hash, r.ExpiresOn)
		if err != nil {
			return fmt.Errorf("session: insert record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("session: commit: %w", err)
	}
	return nil
}
