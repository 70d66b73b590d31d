package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/cmd/internal/auth/session"
)

func newServer(t *testing.T, cfg Config) (*httptest.Server, *fixture) {
	t.Helper()

	f := newFixture(t, cfg)
	mux := http.NewServeMux()
	f.handler.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, f
}

// do sends a JSON request with explicit cookies. Cookies are managed by
// hand so tests can mix, drop and replay them freely.
func do(t *testing.T, srv *httptest.Server, method, path string, body any, cookies []*http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func register(t *testing.T, srv *httptest.Server, username, pw string) userResponse {
	t.Helper()

	resp := do(t, srv, http.MethodPost, "/register", registerRequest{Username: username, Password: pw}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out userResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, srv *httptest.Server, username, pw string) (loginResponse, []*http.Cookie) {
	t.Helper()

	resp := do(t, srv, http.MethodPost, "/login", loginRequest{Username: username, Password: pw}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out loginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out, resp.Cookies()
}

func TestRegister_ConflictOnDuplicateUsername(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())

	register(t, srv, "alice", "long-enough-password")

	resp := do(t, srv, http.MethodPost, "/register", registerRequest{
		Username: "alice",
		Password: "another-long-password",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())

	resp := do(t, srv, http.MethodPost, "/register", registerRequest{
		Username: "alice",
		Password: "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_SetsThreeCookiesAndReturnsExpiries(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())
	register(t, srv, "alice", "long-enough-password")

	out, cookies := login(t, srv, "alice", "long-enough-password")

	for _, name := range []string{"access_token", "refresh_token", "password_confirmation_token"} {
		c := cookieByName(cookies, name)
		require.NotNil(t, c, name)
		assert.NotEmpty(t, c.Value, name)
		assert.True(t, c.HttpOnly, name)
		assert.True(t, c.Secure, name)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite, name)
		assert.Positive(t, c.MaxAge, name)
	}

	// Three distinct expiries; the refresh token outlives the access token
	// which outlives the confirmation token.
	assert.True(t, out.RefreshTokenExpires.After(out.AccessTokenExpires))
	assert.True(t, out.AccessTokenExpires.After(out.PasswordConfirmationTokenExpires))
}

// unavailableSessionStore fails every operation, standing in for a Postgres
// outage mid-request.
type unavailableSessionStore struct{}

func (unavailableSessionStore) Records(context.Context, string) ([]session.Record, error) {
	return nil, errors.New("session store unavailable")
}

func (unavailableSessionStore) Mutate(context.Context, string, func([]session.Record) ([]session.Record, error)) error {
	return errors.New("session store unavailable")
}

func TestLogin_NoCookiesWhenSessionStoreFails(t *testing.T) {
	f := newFixtureWithSessions(t, DefaultConfig(), unavailableSessionStore{})
	f.createUser(t, "alice", "long-enough-password")

	mux := http.NewServeMux()
	f.handler.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	resp := do(t, srv, http.MethodPost, "/login", loginRequest{
		Username: "alice",
		Password: "long-enough-password",
	}, nil)

	// A failed login must not leave the client holding any session cookie.
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestLogin_WrongCredentialsUnauthorized(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())
	register(t, srv, "alice", "long-enough-password")

	for _, body := range []loginRequest{
		{Username: "alice", Password: "wrong-password-here"},
		{Username: "nobody", Password: "long-enough-password"},
	} {
		resp := do(t, srv, http.MethodPost, "/login", body, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

// TestEndToEndSessionLifecycle follows the full flow: register, login,
// refresh the access token off the refresh cookie alone, logout the
// current session, and observe that the old access token keeps working
// until expiry while the old refresh token is dead immediately.
func TestEndToEndSessionLifecycle(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())
	register(t, srv, "alice", "long-enough-password")

	_, cookies := login(t, srv, "alice", "long-enough-password")
	access := cookieByName(cookies, "access_token")
	refresh := cookieByName(cookies, "refresh_token")
	confirm := cookieByName(cookies, "password_confirmation_token")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	require.NotNil(t, confirm)

	// Refresh the access token using only the refresh cookie.
	resp := do(t, srv, http.MethodGet, "/refresh/access-token", nil, []*http.Cookie{refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	newAccess := cookieByName(resp.Cookies(), "access_token")
	require.NotNil(t, newAccess)
	assert.NotEqual(t, access.Value, newAccess.Value)

	// Without the refresh cookie the route rejects.
	resp = do(t, srv, http.MethodGet, "/refresh/access-token", nil, []*http.Cookie{access})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logout the current session.
	resp = do(t, srv, http.MethodDelete, "/logout",
		logoutRequest{Scope: ScopeCurrentSession},
		[]*http.Cookie{access, refresh, confirm})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Access tokens are not revoked early.
	resp = do(t, srv, http.MethodGet, "/status", nil, []*http.Cookie{access})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The refresh token's record is gone.
	resp = do(t, srv, http.MethodGet, "/refresh/access-token", nil, []*http.Cookie{refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_InvalidScopeBadRequest(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())
	register(t, srv, "alice", "long-enough-password")
	_, cookies := login(t, srv, "alice", "long-enough-password")

	resp := do(t, srv, http.MethodDelete, "/logout",
		logoutRequest{Scope: "everything"}, cookies)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogout_OtherSessionsKeepsCurrent(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())
	register(t, srv, "alice", "long-enough-password")

	_, first := login(t, srv, "alice", "long-enough-password")
	_, second := login(t, srv, "alice", "long-enough-password")

	firstRefresh := cookieByName(first, "refresh_token")
	secondRefresh := cookieByName(second, "refresh_token")
	require.NotEqual(t, firstRefresh.Value, secondRefresh.Value)

	// Both sessions work.
	for _, c := range []*http.Cookie{firstRefresh, secondRefresh} {
		resp := do(t, srv, http.MethodGet, "/refresh/access-token", nil, []*http.Cookie{c})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Second session logs everyone else out.
	resp := do(t, srv, http.MethodDelete, "/logout",
		logoutRequest{Scope: ScopeOtherSessions}, second)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/refresh/access-token", nil, []*http.Cookie{firstRefresh})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/refresh/access-token", nil, []*http.Cookie{secondRefresh})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshRefreshToken_AdditiveByDefault(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())
	register(t, srv, "alice", "long-enough-password")
	_, cookies := login(t, srv, "alice", "long-enough-password")
	oldRefresh := cookieByName(cookies, "refresh_token")

	resp := do(t, srv, http.MethodGet, "/refresh/refresh-token", nil, []*http.Cookie{oldRefresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	newRefresh := cookieByName(resp.Cookies(), "refresh_token")
	require.NotNil(t, newRefresh)

	// Both the rotated-from and rotated-to tokens stay valid.
	for _, c := range []*http.Cookie{oldRefresh, newRefresh} {
		resp := do(t, srv, http.MethodGet, "/refresh/access-token", nil, []*http.Cookie{c})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestRefreshRefreshToken_RotationCanInvalidateOld(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RotationInvalidatesOld = true
	srv, _ := newServer(t, cfg)

	register(t, srv, "alice", "long-enough-password")
	_, cookies := login(t, srv, "alice", "long-enough-password")
	oldRefresh := cookieByName(cookies, "refresh_token")

	resp := do(t, srv, http.MethodGet, "/refresh/refresh-token", nil, []*http.Cookie{oldRefresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	newRefresh := cookieByName(resp.Cookies(), "refresh_token")
	require.NotNil(t, newRefresh)

	resp = do(t, srv, http.MethodGet, "/refresh/access-token", nil, []*http.Cookie{oldRefresh})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/refresh/access-token", nil, []*http.Cookie{newRefresh})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshPasswordConfirmationToken(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())
	register(t, srv, "alice", "long-enough-password")
	_, cookies := login(t, srv, "alice", "long-enough-password")
	access := cookieByName(cookies, "access_token")

	// Correct password: fresh confirmation cookie.
	resp := do(t, srv, http.MethodPost, "/refresh/password-confirmation-token",
		confirmPasswordRequest{Password: "long-enough-password"}, []*http.Cookie{access})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, cookieByName(resp.Cookies(), "password_confirmation_token"))

	// Wrong password: Unauthorized, nothing set.
	resp = do(t, srv, http.MethodPost, "/refresh/password-confirmation-token",
		confirmPasswordRequest{Password: "wrong-password-here"}, []*http.Cookie{access})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, cookieByName(resp.Cookies(), "password_confirmation_token"))

	// No access cookie at all.
	resp = do(t, srv, http.MethodPost, "/refresh/password-confirmation-token",
		confirmPasswordRequest{Password: "long-enough-password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserResource(t *testing.T) {
	srv, _ := newServer(t, DefaultConfig())
	register(t, srv, "alice", "long-enough-password")
	_, cookies := login(t, srv, "alice", "long-enough-password")
	access := cookieByName(cookies, "access_token")
	confirm := cookieByName(cookies, "password_confirmation_token")

	resp := do(t, srv, http.MethodGet, "/user", nil, []*http.Cookie{access})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me userResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "alice", me.Username)

	// Update requires the confirmation cookie on top of the access token.
	newName := "alice2"
	resp = do(t, srv, http.MethodPatch, "/user",
		updateUserRequest{Username: &newName}, []*http.Cookie{access})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, srv, http.MethodPatch, "/user",
		updateUserRequest{Username: &newName}, []*http.Cookie{access, confirm})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated userResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, "alice2", updated.Username)

	// Delete the account; the access token now resolves to a missing user.
	resp = do(t, srv, http.MethodDelete, "/user", nil, []*http.Cookie{access, confirm})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/user", nil, []*http.Cookie{access})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
