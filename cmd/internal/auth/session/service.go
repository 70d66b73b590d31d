package session

import (
	"context"
	"fmt"
	"time"

	"taskdeck/cmd/security/password"
)

// Service implements the refresh-token record operations over a Store.
//
// Tokens are compared by Argon2id verification against every record, never
// by equality on hashes: hashing is salted, so the same token never produces
// the same PHC string twice.
type Service struct {
	store    Store
	password password.Config
	ttl      time.Duration
}

// NewService builds a Service. ttl is the refresh-token lifetime and stamps
// every saved record's expiry.
func NewService(store Store, pw password.Config, ttl time.Duration) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session: nil store")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session: non-positive ttl")
	}
	return &Service{store: store, password: pw, ttl: ttl}, nil
}

// SaveToken hashes token and appends it to the user's record list,
// dropping records that have already expired in the same rewrite. Existing
// live records are kept, so each login or rotation adds a session without
// ending the others.
func (s *Service) SaveToken(ctx context.Context, userID, token string, now time.Time) error {
	hash, err := s.password.HashRaw(token)
	if err != nil {
		return fmt.Errorf("session: hash token: %w", err)
	}

	return s.store.Mutate(ctx, userID, func(records []Record) ([]Record, error) {
		next := records[:0]
		for _, r := range records {
			if !r.Expired(now) {
				next = append(next, r)
			}
		}
		return append(next, Record{Hash: hash, ExpiresOn: now.Add(s.ttl)}), nil
	})
}

// RemoveToken deletes every record matching token. Removing a token that
// matches nothing is not an error; the list is simply left as it was.
func (s *Service) RemoveToken(ctx context.Context, userID, token string) error {
	return s.store.Mutate(ctx, userID, func(records []Record) ([]Record, error) {
		next := records[:0]
		for _, r := range records {
			ok, err := s.password.Verify(r.Hash, token)
			if err != nil || !ok {
				next = append(next, r)
			}
		}
		return next, nil
	})
}

// RemoveOtherTokens deletes every record except those matching token,
// ending all of the user's sessions but the presenting one.
func (s *Service) RemoveOtherTokens(ctx context.Context, userID, token string) error {
	return s.store.Mutate(ctx, userID, func(records []Record) ([]Record, error) {
		next := records[:0]
		for _, r := range records {
			ok, err := s.password.Verify(r.Hash, token)
			if err == nil && ok {
				next = append(next, r)
			}
		}
		return next, nil
	})
}

// RemoveAll deletes every record for the user. Used when the account itself
// is deleted.
func (s *Service) RemoveAll(ctx context.Context, userID string) error {
	return s.store.Mutate(ctx, userID, func([]Record) ([]Record, error) {
		return nil, nil
	})
}

// MatchesAny reports whether token matches at least one unexpired record.
// Every record is checked even after a match is found, so the work done
// does not depend on where in the list the match sits. Records that fail
// to parse are skipped rather than treated as errors.
func (s *Service) MatchesAny(ctx context.Context, userID, token string, now time.Time) (bool, error) {
	records, err := s.store.Records(ctx, userID)
	if err != nil {
		return false, err
	}

	matched := false
	for _, r := range records {
		ok, err := s.password.Verify(r.Hash, token)
		if err != nil || !ok {
			continue
		}
		if !r.Expired(now) {
			matched = true
		}
	}
	return matched, nil
}
