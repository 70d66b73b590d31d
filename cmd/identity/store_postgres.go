package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements user persistence over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
// Unique violations on the username column are mapped to ConflictError.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore over an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

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

	const q = `
INSERT INTO users (id, username, password_hash, created_at)
VALUES ($1, $2, $3, $4)`

	if _, err := s.pool.Exec(ctx, q, id, username, in.PasswordHash, now); err != nil {
		if pgIsUniqueViolation(err) {
			return User{}, ConflictError{Op: op, Field: "username"}
		}
		return User{}, OpError{Op: op, Kind: err, Msg: "insert failed"}
	}

	return User{ID: id, Username: username, PasswordHash: in.PasswordHash, CreatedAt: now}, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (User, error) {
	const op = "identity.GetUserByID"

	const q = `
SELECT id, username, password_hash, created_at
FROM users
WHERE id = $1`

	return s.scanUser(ctx, op, q, id)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	const op = "identity.GetUserByUsername"

	const q = `
SELECT id, username, password_hash, created_at
FROM users
WHERE username = $1`

	return s.scanUser(ctx, op, q, username)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (User, error) {
	const op = "identity.UpdateUser"

	if in.Username == nil && in.PasswordHash == nil {
		return s.GetUserByID(ctx, id)
	}
	if in.Username != nil && strings.TrimSpace(*in.Username) == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "username is required"}
	}
	if in.PasswordHash != nil && *in.PasswordHash == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password hash is required"}
	}

	const q = `
UPDATE users
SET username      = COALESCE($2, username),
    password_hash = COALESCE($3, password_hash)
WHERE id = $1
RETURNING id, username, password_hash, created_at`

	var username *string
	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		username = &trimmed
	}

	var u User
	err := s.pool.QueryRow(ctx, q, id, username, in.PasswordHash).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, OpError{Op: op, Kind: ErrNotFound}
		}
		if pgIsUniqueViolation(err) {
			return User{}, ConflictError{Op: op, Field: "username"}
		}
		return User{}, OpError{Op: op, Kind: err, Msg: "update failed"}
	}
	return u, nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	const op = "identity.DeleteUser"

	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return OpError{Op: op, Kind: err, Msg: "delete failed"}
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: op, Kind: ErrNotFound}
	}
	return nil
}

func (s *PostgresStore) scanUser(ctx context.Context, op, q string, arg any) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, q, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, OpError{Op: op, Kind: ErrNotFound}
		}
		return User{}, OpError{Op: op, Kind: err, Msg: "query failed"}
	}
	return u, nil
}

func pgIsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
