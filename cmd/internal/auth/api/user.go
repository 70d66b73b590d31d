package authapi

import (
	"net/http"
	"strings"

	"taskdeck/cmd/identity"
	"taskdeck/cmd/security/password"
)

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.AccessPrincipal(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: p.ID, Username: p.Username})
}

// handleUpdateUser changes username and/or password. Both are sensitive, so
// a fresh password confirmation is required on top of the access token.
func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.AccessPrincipal(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	if err := h.passwordConfirmed(r, p); err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.Username == nil && req.Password == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username is required")
		return
	}

	in := identity.UpdateUserInput{Username: req.Username}
	if req.Password != nil {
		hash, err := h.password.Hash(*req.Password)
		if err != nil {
			if password.IsPolicyViolation(err) {
				writeError(w, http.StatusBadRequest, "weak_password", "password does not meet policy")
				return
			}
			h.log.Error("user.update.hash.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "could not update user")
			return
		}
		in.PasswordHash = &hash
	}

	u, err := h.users.UpdateUser(r.Context(), p.ID, in)
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeError(w, http.StatusConflict, "username_taken", "username already exists")
		case identity.IsNotFound(err):
			writeUnauthorized(w)
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid update data")
		default:
			h.log.Error("user.update.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "could not update user")
		}
		return
	}

	h.log.Info("user.update.ok", "user_id", u.ID)
	writeJSON(w, http.StatusOK, userResponse{ID: u.ID, Username: u.Username})
}

// handleDeleteUser removes the account, its refresh-token records and its
// tasks, then clears the session cookies.
func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.AccessPrincipal(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	if err := h.passwordConfirmed(r, p); err != nil {
		writeUnauthorized(w)
		return
	}

	ctx := r.Context()

	if h.tasks != nil {
		if err := h.tasks.RemoveForOwner(ctx, p.ID); err != nil {
			h.log.Error("user.delete.tasks.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "could not delete user")
			return
		}
	}
	if err := h.sessions.RemoveAll(ctx, p.ID); err != nil {
		h.log.Error("user.delete.sessions.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not delete user")
		return
	}
	if err := h.users.DeleteUser(ctx, p.ID); err != nil && !identity.IsNotFound(err) {
		h.log.Error("user.delete.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not delete user")
		return
	}

	h.clearSessionCookies(w)
	h.log.Info("user.delete.ok", "user_id", p.ID)
	w.WriteHeader(http.StatusNoContent)
}
