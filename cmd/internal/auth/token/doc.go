// Package token implements taskdeck's token issuance and verification.
//
// Three token classes share one mechanism: a short-lived access token, a
// long-lived refresh token, and a very short-lived password-confirmation
// token. Each class carries its own HMAC secret and duration; the signed
// payload is minimal (subject = user id) and all expiry enforcement lives
// in the signing layer, not in application logic.
//
// Tokens are HS256 JWTs (github.com/golang-jwt/jwt/v5). Verification is
// parameterized by class: verifying a token against another class's secret
// fails.
package token
