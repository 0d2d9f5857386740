package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/auth"
)

// AuthService is the slice of the auth service the handler needs.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	Register(ctx context.Context, params auth.RegisterParams) (*domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService  AuthService
	bearerPrefix string
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService AuthService, bearerPrefix string) *AuthHandler {
	if bearerPrefix == "" {
		bearerPrefix = "Bearer"
	}
	return &AuthHandler{
		authService:  authService,
		bearerPrefix: bearerPrefix,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), auth.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		RoleNames: req.Roles,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Elevated so repeated credential failures stand out in logs.
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err,
			shared.WithElevatedLogLevel())
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		User:        NewUserResponse(result.User),
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout handles POST /api/auth/logout. The access token to revoke is
// the one in the Authorization header. Logging out twice is a no-op
// success; a token that fails signature verification is a 401.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := h.extractToken(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != h.bearerPrefix || parts[1] == "" {
		return "", auth.ErrMissingToken
	}
	return parts[1], nil
}
