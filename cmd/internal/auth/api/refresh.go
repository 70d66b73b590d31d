package authapi

import (
	"net/http"
	"time"

	"taskdeck/cmd/internal/auth/cookie"
	"taskdeck/cmd/internal/auth/token"
)

func (h *Handler) handleRefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	p, _, err := h.refreshPrincipal(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}

	now := time.Now().UTC()
	issued, err := h.issueAndAttach(w, token.ClassAccess, cookie.AccessToken, p.ID, now)
	if err != nil {
		h.log.Error("auth.refresh.access.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not refresh token")
		return
	}

	writeJSON(w, http.StatusOK, expiryResponse{Expires: issued.ExpiresAt})
}

func (h *Handler) handleRefreshRefreshToken(w http.ResponseWriter, r *http.Request) {
	p, oldToken, err := h.refreshPrincipal(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	issued, err := h.tokens.Issue(token.ClassRefresh, p.ID, now)
	if err != nil {
		h.log.Error("auth.refresh.refresh.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not refresh token")
		return
	}
	// Persist before attaching, so a store failure never hands the client a
	// rotated cookie the server has no record of.
	if err := h.sessions.SaveToken(ctx, p.ID, issued.Token, now); err != nil {
		h.log.Error("auth.refresh.save.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not refresh token")
		return
	}
	h.cookies.Attach(w, cookie.RefreshToken, issued.Token, issued.Duration)

	// Rotation is additive unless configured otherwise: the record the old
	// token just validated against stays until it expires or is logged out.
	if h.cfg.RotationInvalidatesOld {
		if err := h.sessions.RemoveToken(ctx, p.ID, oldToken); err != nil {
			h.log.Error("auth.refresh.invalidate_old.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "could not refresh token")
			return
		}
	}

	writeJSON(w, http.StatusOK, expiryResponse{Expires: issued.ExpiresAt})
}

// handleRefreshPasswordConfirmationToken re-verifies the password of the
// already-authenticated user. Whether the password was wrong or anything
// else failed is not distinguishable from the outside.
func (h *Handler) handleRefreshPasswordConfirmationToken(w http.ResponseWriter, r *http.Request) {
	p, err := h.AccessPrincipal(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req confirmPasswordRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	_, ok, err := h.verifier.Verify(r.Context(), p.Username, req.Password)
	if err != nil {
		h.log.Error("auth.confirm.verify.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not verify credentials")
		return
	}
	if !ok {
		writeUnauthorized(w)
		return
	}

	issued, err := h.issueAndAttach(w, token.ClassPasswordConfirmation, cookie.PasswordConfirmationToken, p.ID, time.Now().UTC())
	if err != nil {
		h.log.Error("auth.confirm.issue.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, expiryResponse{Expires: issued.ExpiresAt})
}
