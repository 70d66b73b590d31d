package authapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"taskdeck/cmd/identity"
	"taskdeck/cmd/internal/auth/cookie"
	"taskdeck/cmd/internal/auth/session"
	"taskdeck/cmd/internal/auth/token"
	"taskdeck/cmd/security/password"
)

// TaskPurger removes every task owned by a user. Satisfied by the task
// stores; used when an account is deleted.
type TaskPurger interface {
	RemoveForOwner(ctx context.Context, ownerID string) error
}

// Handler owns the authentication and user endpoints.
type Handler struct {
	cfg      Config
	log      *slog.Logger
	users    identity.Store
	verifier identity.Verifier
	password password.Config
	tokens   *token.Issuer
	cookies  *cookie.Codec
	sessions *session.Service
	tasks    TaskPurger
}

// NewHandler wires the authentication Handler. tasks may be nil when no
// task resource is mounted; user deletion then skips the cascade.
func NewHandler(
	cfg Config,
	log *slog.Logger,
	users identity.Store,
	pw password.Config,
	tokens *token.Issuer,
	cookies *cookie.Codec,
	sessions *session.Service,
	tasks TaskPurger,
) (*Handler, error) {
	switch {
	case users == nil:
		return nil, errors.New("authapi: nil user store")
	case tokens == nil:
		return nil, errors.New("authapi: nil token issuer")
	case cookies == nil:
		return nil, errors.New("authapi: nil cookie codec")
	case sessions == nil:
		return nil, errors.New("authapi: nil session service")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		cfg:      cfg,
		log:      log,
		users:    users,
		verifier: identity.NewVerifier(users, pw),
		password: pw,
		tokens:   tokens,
		cookies:  cookies,
		sessions: sessions,
		tasks:    tasks,
	}, nil
}

// Register mounts the authentication routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /status", h.handleStatus)
	mux.HandleFunc("DELETE /logout", h.handleLogout)

	mux.HandleFunc("GET /refresh/access-token", h.handleRefreshAccessToken)
	mux.HandleFunc("GET /refresh/refresh-token", h.handleRefreshRefreshToken)
	mux.HandleFunc("POST /refresh/password-confirmation-token", h.handleRefreshPasswordConfirmationToken)

	mux.HandleFunc("GET /user", h.handleGetUser)
	mux.HandleFunc("PATCH /user", h.handleUpdateUser)
	mux.HandleFunc("DELETE /user", h.handleDeleteUser)
}

// issueAndAttach mints one token, sets its cookie and returns the issuance.
func (h *Handler) issueAndAttach(w http.ResponseWriter, class token.Class, name, userID string, now time.Time) (token.Issued, error) {
	issued, err := h.tokens.Issue(class, userID, now)
	if err != nil {
		return token.Issued{}, err
	}
	h.cookies.Attach(w, name, issued.Token, issued.Duration)
	return issued, nil
}

func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	h.cookies.Clear(w, cookie.AccessToken)
	h.cookies.Clear(w, cookie.RefreshToken)
	h.cookies.Clear(w, cookie.PasswordConfirmationToken)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	u, ok, err := h.verifier.Verify(ctx, req.Username, req.Password)
	if err != nil {
		h.log.Error("auth.login.verify.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not verify credentials")
		return
	}
	if !ok {
		writeUnauthorized(w)
		return
	}

	access, err := h.tokens.Issue(token.ClassAccess, u.ID, now)
	if err != nil {
		h.log.Error("auth.login.issue.fail", "class", "access", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not establish session")
		return
	}
	refresh, err := h.tokens.Issue(token.ClassRefresh, u.ID, now)
	if err != nil {
		h.log.Error("auth.login.issue.fail", "class", "refresh", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not establish session")
		return
	}
	confirm, err := h.tokens.Issue(token.ClassPasswordConfirmation, u.ID, now)
	if err != nil {
		h.log.Error("auth.login.issue.fail", "class", "password_confirmation", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not establish session")
		return
	}

	// Persist the refresh record before any cookie goes out: if the store is
	// down the client must not end up holding a live session it cannot renew
	// or log out of.
	if err := h.sessions.SaveToken(ctx, u.ID, refresh.Token, now); err != nil {
		h.log.Error("auth.login.save_refresh.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not establish session")
		return
	}

	h.cookies.Attach(w, cookie.AccessToken, access.Token, access.Duration)
	h.cookies.Attach(w, cookie.RefreshToken, refresh.Token, refresh.Duration)
	h.cookies.Attach(w, cookie.PasswordConfirmationToken, confirm.Token, confirm.Duration)

	h.log.Info("auth.login.ok", "user_id", u.ID)
	writeJSON(w, http.StatusOK, loginResponse{
		ID:                               u.ID,
		Username:                         u.Username,
		AccessTokenExpires:               access.ExpiresAt,
		RefreshTokenExpires:              refresh.ExpiresAt,
		PasswordConfirmationTokenExpires: confirm.ExpiresAt,
	})
}

// handleStatus is a cheap authenticated liveness probe for clients.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := h.AccessPrincipal(r); err != nil {
		writeUnauthorized(w)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	p, err := h.AccessPrincipal(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	if err := h.passwordConfirmed(r, p); err != nil {
		writeUnauthorized(w)
		return
	}

	scope := ScopeCurrentSession
	if r.Body != nil && r.ContentLength != 0 {
		var req logoutRequest
		if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}
		if req.Scope != "" {
			scope = req.Scope
		}
	}

	// The refresh cookie identifies which session "current" means. It is
	// read without the refresh guard: logout authorization comes from the
	// access + confirmation pair above.
	refreshToken, _ := h.cookies.Read(r, cookie.RefreshToken)

	ctx := r.Context()
	switch scope {
	case ScopeCurrentSession:
		if refreshToken != "" {
			if err := h.sessions.RemoveToken(ctx, p.ID, refreshToken); err != nil {
				h.log.Error("auth.logout.remove.fail", "err", err)
				writeError(w, http.StatusInternalServerError, "internal", "could not end session")
				return
			}
		}
		h.clearSessionCookies(w)
	case ScopeOtherSessions:
		if err := h.sessions.RemoveOtherTokens(ctx, p.ID, refreshToken); err != nil {
			h.log.Error("auth.logout.remove_others.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "could not end sessions")
			return
		}
		// Current session's cookies stay untouched.
	default:
		writeError(w, http.StatusBadRequest, "invalid_scope", "scope must be current-session or other-sessions")
		return
	}

	h.log.Info("auth.logout.ok", "user_id", p.ID, "scope", scope)
	w.WriteHeader(http.StatusNoContent)
}
