package session

import "errors"

// ErrUserUnknown is returned by stores when the user row does not exist.
var ErrUserUnknown = errors.New("session: unknown user")
