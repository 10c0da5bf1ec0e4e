package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ss-infotech2024/AllCares/internal/auth"
	apperrors "github.com/ss-infotech2024/AllCares/pkg/errors"
	"github.com/ss-infotech2024/AllCares/pkg/httputil"
	"github.com/ss-infotech2024/AllCares/pkg/validator"
)

// AuthHandler handles HTTP requests for sign-in, sign-up and sign-out.
type AuthHandler struct {
	client *auth.Client
	logger *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(client *auth.Client, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		client: client,
		logger: logger,
	}
}

// --- Request DTOs ---

// SignInRequest is the JSON request body for signing in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpRequest is the JSON request body for creating an account.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// --- Handlers ---

// SignIn handles POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result := h.client.SignIn(r.Context(), req.Email, req.Password)
	if !result.Success {
		// The message is already user-facing; the identity API decides
		// whether credentials were wrong or the call simply failed.
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{Data: result})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result := h.client.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if !result.Success {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{Data: result})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// SignOut handles POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.client.SignOut(); err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "signed out"}})
}

// CurrentUser handles GET /api/v1/auth/me
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.client.CurrentUser()
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("not signed in"), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}
