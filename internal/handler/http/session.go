package http

import (
	"log/slog"
	"net/http"

	"github.com/wasgeurtjeNL/storefront-session/internal/reorder"
	"github.com/wasgeurtjeNL/storefront-session/internal/session"
	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
	"github.com/wasgeurtjeNL/storefront-session/pkg/httputil"
	"github.com/wasgeurtjeNL/storefront-session/pkg/validator"
)

// SessionHandler handles HTTP requests for the session service.
type SessionHandler struct {
	lifecycle *session.Lifecycle
	resolver  *reorder.Resolver
	logger    *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(lifecycle *session.Lifecycle, resolver *reorder.Resolver, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		lifecycle: lifecycle,
		resolver:  resolver,
		logger:    logger,
	}
}

// --- Request DTOs ---

// LoginRequest is the JSON request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// SessionResponse describes the current session to the storefront UI.
type SessionResponse struct {
	State string `json:"state"`
	User  any    `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

// --- Handlers ---

// Login handles POST /api/v1/auth/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	user, err := h.lifecycle.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// Register handles POST /api/v1/auth/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	user, err := h.lifecycle.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: user})
}

// Logout handles POST /api/v1/auth/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.lifecycle.Logout(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SessionState handles GET /api/v1/session. It reports Unrestored
// explicitly so consumers can defer login-state decisions until restoration
// has completed.
func (h *SessionHandler) SessionState(w http.ResponseWriter, r *http.Request) {
	resp := SessionResponse{State: string(h.lifecycle.State())}
	if user := h.lifecycle.CurrentUser(); user != nil {
		resp.User = user
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}
