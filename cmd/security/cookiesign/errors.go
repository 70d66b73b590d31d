package cookiesign

import "errors"

// Public, stable errors for callers.
var (
	ErrKeyMissing  = errors.New("cookie secret missing")
	ErrKeyTooShort = errors.New("cookie secret too short")
)
