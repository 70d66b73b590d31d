package session

import (
	"context"
	"time"
)

// Record is one persisted refresh-token credential.
// Hash is the Argon2id PHC string of the token; the plain token never
// reaches the store.
type Record struct {
	Hash      string
	ExpiresOn time.Time
}

// Expired reports whether the record is past its expiry at the given instant.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresOn.After(now)
}

// Store persists per-user refresh-token record lists.
//
// Mutate must apply fn to the user's current record list and persist the
// returned list atomically with respect to other Mutate calls for the same
// user. Returning an error from fn aborts the rewrite.
type Store interface {
	Records(ctx context.Context, userID string) ([]Record, error)
	Mutate(ctx context.Context, userID string, fn func(records []Record) ([]Record, error)) error
}
