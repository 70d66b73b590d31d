// Package password provides Argon2id hashing and verification for taskdeck.
//
// Hashes use a PHC-style encoded string format. The package covers:
//   - configurable Argon2id cost parameters (env overridable)
//   - password policy validation
//   - strict hash decoding with anti-DoS parameter bounds during Verify
//
// Hash strings are treated as untrusted input during Verify: verification
// refuses hashes whose parameters exceed reasonable bounds. HashRaw exists
// for hashing machine-generated secrets (refresh tokens) that are exempt
// from the human password policy.
package password
