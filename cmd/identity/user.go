package identity

import (
	"context"
	"time"
)

// User is taskdeck's canonical security principal.
// PasswordHash is the Argon2id PHC string; the plaintext is never stored.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Principal is the request-scoped identity attached by the guards.
type Principal struct {
	ID       string
	Username string
}

// Principal projects a stored user onto its request-scoped identity.
func (u User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username}
}

// CreateUserInput describes a registration request.
// Password must already be validated; it is hashed by the service layer,
// so the store only ever sees the hash.
type CreateUserInput struct {
	Username     string
	PasswordHash string
	Now          time.Time
}

// UpdateUserInput carries a partial user update. Nil fields are untouched.
type UpdateUserInput struct {
	Username     *string
	PasswordHash *string
}

// Store is the user persistence boundary.
//
// Usernames are matched exactly and case-sensitively; lookup semantics do
// not depend on store collation.
type Store interface {
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (User, error)
	DeleteUser(ctx context.Context, id string) error
}
