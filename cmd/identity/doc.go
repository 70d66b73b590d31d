// Package identity holds taskdeck's user model, persistence boundary and
// credential verification.
//
// Passwords are stored only as Argon2id hashes (cmd/security/password).
// Credential verification is a normal negative result, never an error:
// unknown username and wrong password are indistinguishable to callers.
package identity
