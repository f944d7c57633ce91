package http

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
	"github.com/MSP-Team3/kyeol-storefront/pkg/httputil"
	"github.com/MSP-Team3/kyeol-storefront/pkg/validator"

	"github.com/MSP-Team3/kyeol-storefront/internal/auth"
	"github.com/MSP-Team3/kyeol-storefront/internal/commerce"
)

// AuthHandler handles session endpoints.
type AuthHandler struct {
	sessions *auth.Sessions
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(sessions *auth.Sessions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// LoginRequest is the JSON request body for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.sessions.SignIn(r.Context(), w, req.Email, req.Password)
	if err != nil {
		// The commerce API reports bad credentials as a payload error, not
		// a transport failure.
		var mutErr *commerce.MutationError
		if errors.As(err, &mutErr) {
			httputil.WriteError(w, r, apperrors.Unauthorized("invalid credentials"), h.logger)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// Logout handles POST /api/v1/auth/logout
//
// The checkout cookie survives sign-out: the cart belongs to the browser,
// not the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(w)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"success": true}})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessions.CurrentUser(r.Context(), w, auth.NewRequestAuth(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}
