package cookiesign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"os"
	"strings"
)

const (
	// SecretEnvKey is the env var name for the cookie signing secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	SecretEnvKey = "TASKDECK_COOKIE_SECRET"

	// MinKeyBytes is the minimum accepted secret length for HMAC-SHA256.
	MinKeyBytes = 32
)

// Sign returns value with an HMAC-SHA256 signature appended after a dot.
// The signature is base64url without padding, so the dot before it is
// always the last dot in the signed string (values may contain dots).
func Sign(value string, key []byte) string {
	return value + "." + mac(value, key)
}

// Unsign splits a signed string into value and signature, recomputes the
// MAC and compares in constant time. Returns the inner value and whether
// the signature was valid.
func Unsign(signed string, key []byte) (string, bool) {
	i := strings.LastIndexByte(signed, '.')
	if i <= 0 || i == len(signed)-1 {
		return "", false
	}
	value, sig := signed[:i], signed[i+1:]

	expected := mac(value, key)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return value, true
}

// KeyFromEnv returns the configured cookie secret bytes (trimmed),
// enforcing the minimum byte length.
func KeyFromEnv() ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(SecretEnvKey))
	if raw == "" {
		return nil, ErrKeyMissing
	}
	b := []byte(raw)
	if len(b) < MinKeyBytes {
		return nil, ErrKeyTooShort
	}
	return b, nil
}

func mac(value string, key []byte) string {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}
