package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Class identifies one of the three token classes. Each class has its own
// signing secret and lifetime; they are otherwise handled identically.
type Class int

const (
	// ClassAccess authorizes general API access (short-lived).
	ClassAccess Class = iota
	// ClassRefresh authorizes minting new tokens (long-lived, hash persisted server-side).
	ClassRefresh
	// ClassPasswordConfirmation is step-up proof of recent password re-entry (very short-lived).
	ClassPasswordConfirmation
)

func (c Class) String() string {
	switch c {
	case ClassAccess:
		return "access"
	case ClassRefresh:
		return "refresh"
	case ClassPasswordConfirmation:
		return "password_confirmation"
	default:
		return "unknown"
	}
}

// Issued is the result of minting a token.
type Issued struct {
	Token     string
	ExpiresAt time.Time
	Duration  time.Duration
}

// Claims is the verified payload of a token.
type Claims struct {
	Subject string
}

// Issuer mints and verifies signed tokens for all three classes.
type Issuer struct {
	cfg Config
}

// NewIssuer validates the configuration and returns an Issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg}, nil
}

// Duration returns the configured lifetime of a token class.
func (i *Issuer) Duration(c Class) time.Duration {
	return i.cfg.class(c).Duration
}

// Issue mints a signed token of class c with subject = userID.
func (i *Issuer) Issue(c Class, userID string, now time.Time) (Issued, error) {
	cc := i.cfg.class(c)
	exp := now.Add(cc.Duration)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	signed, err := tok.SignedString(cc.Secret)
	if err != nil {
		return Issued{}, err
	}

	return Issued{Token: signed, ExpiresAt: exp, Duration: cc.Duration}, nil
}

// Verify checks raw against class c's secret at time now and returns the
// embedded claims. Signature, algorithm and expiry failures all map to
// package sentinels; no library error escapes.
func (i *Issuer) Verify(c Class, raw string, now time.Time) (Claims, error) {
	cc := i.cfg.class(c)

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	tok, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return cc.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !tok.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return Claims{Subject: claims.Subject}, nil
}
