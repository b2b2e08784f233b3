package api

import (
	"context"
	"net/http"

	"github.com/okian/prochallenge/internal/domain/types"
)

// SessionDependencies defines the interface for session operations.
type SessionDependencies interface {
	Login(ctx context.Context, user string) (types.Session, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (types.Session, error)
}

// SessionHandler handles login state requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleLogin handles POST /session requests.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	var req loginRequest
	if err := decode(r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.deps.Login(r.Context(), req.User)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// HandleCurrent handles GET /session requests.
func (h *SessionHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.CurrentSession(r.Context())
	if err != nil {
		writeError(w, Wrap("api.current_session", err))
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// HandleLogout handles DELETE /session requests.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Logout(r.Context()); err != nil {
		writeError(w, Wrap("api.logout", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
