// Package cookie implements taskdeck's signed-cookie transport for tokens.
//
// Every token travels in an HMAC-signed, Secure, HttpOnly, SameSite=Lax
// cookie whose MaxAge mirrors the token's lifetime. The cookie signature
// (keyed by the dedicated cookie secret) is independent of the JWT
// signature inside the value: stripping the cookie wrapper still leaves a
// signed token. Reads that fail signature verification behave exactly like
// a missing cookie.
package cookie

import (
	"net/http"
	"strings"
	"time"

	"taskdeck/cmd/security/cookiesign"
)

// Cookie names are stable wire identifiers.
const (
	AccessToken               = "access_token"
	RefreshToken              = "refresh_token"
	PasswordConfirmationToken = "password_confirmation_token"
)

// Codec signs cookie values on write and verifies them on read.
type Codec struct {
	key []byte
}

// NewCodec returns a Codec keyed with the given cookie secret.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) < cookiesign.MinKeyBytes {
		return nil, cookiesign.ErrKeyTooShort
	}
	return &Codec{key: key}, nil
}

// NewCodecFromEnv builds a Codec from TASKDECK_COOKIE_SECRET.
func NewCodecFromEnv() (*Codec, error) {
	key, err := cookiesign.KeyFromEnv()
	if err != nil {
		return nil, err
	}
	return NewCodec(key)
}

// Attach sets a signed cookie with the standard token-cookie flags.
func (c *Codec) Attach(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    cookiesign.Sign(value, c.key),
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires a cookie client-side using the same flags as Attach.
func (c *Codec) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the verified inner value of a signed cookie.
// Missing cookie, empty value and bad signature are indistinguishable.
func (c *Codec) Read(r *http.Request, name string) (string, bool) {
	ck, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	signed := strings.TrimSpace(ck.Value)
	if signed == "" {
		return "", false
	}
	return cookiesign.Unsign(signed, c.key)
}
