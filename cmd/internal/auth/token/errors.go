package token

import "errors"

var (
	// ErrInvalidToken is returned when a token fails signature or claim validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrConfig is returned for invalid issuer configuration.
	ErrConfig = errors.New("invalid token config")

	// ErrBadDuration is returned by ParseDuration for unparseable input.
	ErrBadDuration = errors.New("invalid duration string")
)
