// Package cookiesign provides HMAC signing primitives for cookie values.
//
// It is the single source of truth for the cookie-signature layer: every
// token cookie taskdeck sets is wrapped in an HMAC-SHA256 signature keyed
// by a dedicated cookie secret, independent of the JWT signatures inside
// the cookie values themselves. Unsigning verifies in constant time and
// rejects any tampered or truncated value.
//
// Environment:
//   - TASKDECK_COOKIE_SECRET: required, minimum 32 bytes.
package cookiesign
