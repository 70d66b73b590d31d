// Package session manages the server-side refresh-token records backing
// taskdeck's rotating sessions.
//
// Plain refresh tokens are never persisted. Each user carries a list of
// Argon2id hashes with expiry stamps, one per live session; presenting a
// refresh token means verifying it against every record and accepting any
// unexpired match. All list rewrites go through Store.Mutate so concurrent
// logins and rotations cannot lose each other's records.
package session
