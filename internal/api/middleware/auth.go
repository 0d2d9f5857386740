package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/redact"
	"github.com/taskhive/taskhive-api/internal/service/access"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes. A valid,
// non-blacklisted access token yields a principal in the request
// context; everything else is a 401 before any handler runs.
type AuthMiddleware struct {
	jwtService   auth.JWTService
	blacklist    store.TokenBlacklist
	bearerPrefix string
}

// NewAuthMiddleware creates a new AuthMiddleware. bearerPrefix is the
// expected Authorization scheme, "Bearer" when empty.
func NewAuthMiddleware(
	jwtService auth.JWTService,
	blacklist store.TokenBlacklist,
	bearerPrefix string,
) *AuthMiddleware {
	if bearerPrefix == "" {
		bearerPrefix = "Bearer"
	}
	return &AuthMiddleware{
		jwtService:   jwtService,
		blacklist:    blacklist,
		bearerPrefix: bearerPrefix,
	}
}

// ExtractToken pulls the raw token out of the Authorization header.
// Returns auth.ErrMissingToken when the header is absent or the scheme
// does not match the configured prefix.
func (m *AuthMiddleware) ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != m.bearerPrefix || parts[1] == "" {
		return "", auth.ErrMissingToken
	}
	return parts[1], nil
}

// Authenticate validates the access token from the Authorization header
// and adds the principal to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.ExtractToken(r)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		revoked, err := m.blacklist.Contains(r.Context(), token)
		if err != nil {
			slog.Error("failed to check token blacklist", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}
		if revoked {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token revoked")
			return
		}

		principal := access.Principal{ID: claims.UserID, Roles: claims.Roles}
		ctx := shared.WithPrincipal(r.Context(), principal)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
