package authapi

import "time"

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse carries expiry timestamps only; the tokens themselves
// travel exclusively as cookies.
type loginResponse struct {
	ID                               string    `json:"id"`
	Username                         string    `json:"username"`
	AccessTokenExpires               time.Time `json:"accessTokenExpires"`
	RefreshTokenExpires              time.Time `json:"refreshTokenExpires"`
	PasswordConfirmationTokenExpires time.Time `json:"passwordConfirmationTokenExpires"`
}

type expiryResponse struct {
	Expires time.Time `json:"expires"`
}

type confirmPasswordRequest struct {
	Password string `json:"password"`
}

// Logout scopes. Anything else in the body is a client error.
const (
	ScopeCurrentSession = "current-session"
	ScopeOtherSessions  = "other-sessions"
)

type logoutRequest struct {
	Scope string `json:"scope"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}
