package authapi

import (
	"net/http"
	"strings"
	"time"

	"taskdeck/cmd/identity"
	"taskdeck/cmd/security/password"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username is required")
		return
	}

	hash, err := h.password.Hash(req.Password)
	if err != nil {
		if password.IsPolicyViolation(err) {
			writeError(w, http.StatusBadRequest, "weak_password", "password does not meet policy")
			return
		}
		h.log.Error("auth.register.hash.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not register")
		return
	}

	u, err := h.users.CreateUser(r.Context(), identity.CreateUserInput{
		Username:     username,
		PasswordHash: hash,
		Now:          time.Now().UTC(),
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeError(w, http.StatusConflict, "username_taken", "username already exists")
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid registration data")
		default:
			h.log.Error("auth.register.create.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "could not register")
		}
		return
	}

	h.log.Info("auth.register.ok", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, userResponse{ID: u.ID, Username: u.Username})
}
