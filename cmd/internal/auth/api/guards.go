package authapi

import (
	"errors"
	"net/http"
	"time"

	"taskdeck/cmd/identity"
	"taskdeck/cmd/internal/auth/cookie"
	"taskdeck/cmd/internal/auth/token"
)

// ErrUnauthorized is the uniform guard failure. Callers must not surface
// anything more specific to the client.
var ErrUnauthorized = errors.New("authapi: unauthorized")

// AccessPrincipal is the access-token guard: it reads the access cookie,
// verifies the token and resolves the subject to a live user. A subject
// whose user has since been deleted is a hard Unauthorized, not a crash.
func (h *Handler) AccessPrincipal(r *http.Request) (identity.Principal, error) {
	raw, ok := h.cookies.Read(r, cookie.AccessToken)
	if !ok {
		return identity.Principal{}, ErrUnauthorized
	}

	claims, err := h.tokens.Verify(token.ClassAccess, raw, time.Now().UTC())
	if err != nil {
		return identity.Principal{}, ErrUnauthorized
	}

	u, err := h.users.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		if identity.IsNotFound(err) {
			return identity.Principal{}, ErrUnauthorized
		}
		return identity.Principal{}, err
	}
	return u.Principal(), nil
}

// refreshPrincipal is the refresh-token guard. Beyond signature and expiry,
// the plaintext must hash-match at least one stored record for the subject:
// a structurally valid token whose record was removed by logout is rejected.
// Returns the plaintext alongside the principal so rotation paths can
// reference the presented session.
func (h *Handler) refreshPrincipal(r *http.Request) (identity.Principal, string, error) {
	raw, ok := h.cookies.Read(r, cookie.RefreshToken)
	if !ok {
		return identity.Principal{}, "", ErrUnauthorized
	}

	now := time.Now().UTC()
	claims, err := h.tokens.Verify(token.ClassRefresh, raw, now)
	if err != nil {
		return identity.Principal{}, "", ErrUnauthorized
	}

	u, err := h.users.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		if identity.IsNotFound(err) {
			return identity.Principal{}, "", ErrUnauthorized
		}
		return identity.Principal{}, "", err
	}

	matched, err := h.sessions.MatchesAny(r.Context(), u.ID, raw, now)
	if err != nil {
		return identity.Principal{}, "", err
	}
	if !matched {
		return identity.Principal{}, "", ErrUnauthorized
	}
	return u.Principal(), raw, nil
}

// passwordConfirmed is the step-up guard. It composes after the access
// guard: p must already be resolved from a valid access token. The
// confirmation cookie must verify against its own secret and carry the
// same subject.
func (h *Handler) passwordConfirmed(r *http.Request, p identity.Principal) error {
	raw, ok := h.cookies.Read(r, cookie.PasswordConfirmationToken)
	if !ok {
		return ErrUnauthorized
	}

	claims, err := h.tokens.Verify(token.ClassPasswordConfirmation, raw, time.Now().UTC())
	if err != nil {
		return ErrUnauthorized
	}
	if claims.Subject != p.ID {
		return ErrUnauthorized
	}
	return nil
}
