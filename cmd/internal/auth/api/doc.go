// Package authapi serves taskdeck's authentication surface: registration,
// login, token refresh, logout and the user resource.
//
// The three guards are plain functions over the request's signed cookies.
// AccessPrincipal resolves the short-lived access token to a live user.
// The refresh guard additionally compares the presented plaintext against
// every stored hash for the user. The password-confirmation guard composes
// on top of the access guard and demands a second, fresher token with the
// same subject. Guard failures map to Unauthorized without detail.
package authapi
