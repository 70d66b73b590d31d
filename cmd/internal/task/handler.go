package task

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"taskdeck/cmd/identity"
)

// AuthenticateFunc resolves the request's principal from its access-token
// cookie. A non-nil error means the request is unauthenticated.
type AuthenticateFunc func(r *http.Request) (identity.Principal, error)

// HandlerConfig carries the handler's tunables.
type HandlerConfig struct {
	MaxBodyBytes int64
}

// DefaultHandlerConfig returns sane defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{MaxBodyBytes: 16 * 1024}
}

// Handler serves the task endpoints. Every route runs behind authenticate;
// mutations additionally require the caller to own the task.
type Handler struct {
	store        Store
	authenticate AuthenticateFunc
	cfg          HandlerConfig
	log          *slog.Logger
}

// NewHandler wires a task Handler.
func NewHandler(store Store, authenticate AuthenticateFunc, cfg HandlerConfig, log *slog.Logger) (*Handler, error) {
	if store == nil {
		return nil, errors.New("task: nil store")
	}
	if authenticate == nil {
		return nil, errors.New("task: nil authenticate")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultHandlerConfig().MaxBodyBytes
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: store, authenticate: authenticate, cfg: cfg, log: log}, nil
}

// Register mounts the task routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /task", h.handleCreate)
	mux.HandleFunc("GET /tasks", h.handleList)
	mux.HandleFunc("PATCH /task/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /task/{id}", h.handleDelete)
}

type taskResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	IsComplete bool   `json:"isComplete"`
}

func toResponse(t Task) taskResponse {
	return taskResponse{ID: t.ID, Title: t.Title, IsComplete: t.IsComplete}
}

type createRequest struct {
	Title string `json:"title"`
}

type updateRequest struct {
	Title      *string `json:"title"`
	IsComplete *bool   `json:"isComplete"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	p, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req createRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	t, err := h.store.Create(r.Context(), CreateInput{
		OwnerID: p.ID,
		Title:   req.Title,
		Now:     time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_request", "title is required")
			return
		}
		h.log.Error("task.create.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not create task")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	p, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	tasks, err := h.store.ListByOwner(r.Context(), p.ID)
	if err != nil {
		h.log.Error("task.list.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not list tasks")
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	p, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	t, ok := h.ownedTask(w, r, p)
	if !ok {
		return
	}

	var req updateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.Title == nil && req.IsComplete == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}

	updated, err := h.store.Update(r.Context(), t.ID, UpdateInput{
		Title:      req.Title,
		IsComplete: req.IsComplete,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_request", "title is required")
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "task not found")
		default:
			h.log.Error("task.update.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "could not update task")
		}
		return
	}

	writeJSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	t, ok := h.ownedTask(w, r, p)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), t.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		h.log.Error("task.delete.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedTask loads the path task and enforces ownership. A task owned by
// someone else reads as not found so ids cannot be probed.
func (h *Handler) ownedTask(w http.ResponseWriter, r *http.Request, p identity.Principal) (Task, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "task id is required")
		return Task{}, false
	}

	t, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return Task{}, false
		}
		h.log.Error("task.get.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not load task")
		return Task{}, false
	}
	if t.OwnerID != p.ID {
		writeError(w, http.StatusNotFound, "not_found", "task not found")
		return Task{}, false
	}
	return t, true
}

// ---- JSON plumbing ----

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: msg}})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}
