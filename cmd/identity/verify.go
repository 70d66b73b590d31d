package identity

import (
	"context"
	"strings"

	"taskdeck/cmd/security/password"
)

// Verifier checks a username/password pair against the user store.
type Verifier struct {
	store    Store
	password password.Config

	// dummyHash is verified against when the username does not exist, so the
	// response time does not reveal whether the user exists.
	dummyHash string
}

// NewVerifier builds a Verifier and precomputes its timing-resistance hash
// with the same parameters used for real credentials.
func NewVerifier(store Store, pw password.Config) Verifier {
	v := Verifier{store: store, password: pw}
	if hash, err := pw.HashRaw("dummy-password-for-timing-only"); err == nil {
		v.dummyHash = hash
	}
	return v
}

// Verify returns the matching user when the credentials are valid.
//
// A failed lookup and a failed password check are indistinguishable: both
// return ok=false with a nil error. Errors are reserved for store failures.
func (v Verifier) Verify(ctx context.Context, username, plaintext string) (User, bool, error) {
	const op = "identity.Verify"

	username = strings.TrimSpace(username)
	if username == "" || plaintext == "" {
		return User{}, false, nil
	}

	u, err := v.store.GetUserByUsername(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			// Burn the same amount of work as the success path.
			if v.dummyHash != "" {
				_, _ = v.password.Verify(v.dummyHash, plaintext)
			}
			return User{}, false, nil
		}
		return User{}, false, OpError{Op: op, Kind: err, Msg: "lookup failed"}
	}

	ok, err := v.password.Verify(u.PasswordHash, plaintext)
	if err != nil {
		return User{}, false, OpError{Op: op, Kind: err, Msg: "stored hash unreadable"}
	}
	if !ok {
		return User{}, false, nil
	}
	return u, true, nil
}
