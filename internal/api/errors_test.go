package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"authentication failed", auth.ErrAuthenticationFailed, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"revoked token", auth.ErrTokenRevoked, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"revoked refresh token", auth.ErrRefreshTokenRevoked, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"policy denial", domain.ErrForbidden, http.StatusForbidden},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"comment not found", store.ErrCommentNotFound, http.StatusNotFound},
		{"role not found", store.ErrRoleNotFound, http.StatusNotFound},
		{"duplicate email", store.ErrEmailExists, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{
			"validation error",
			domain.NewValidationError("title", "cannot be empty", domain.ErrEmptyContent),
			http.StatusBadRequest,
		},
		{"password too short", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"empty user id", domain.ErrEmptyUserID, http.StatusBadRequest},
		{"empty hashed password", domain.ErrEmptyHashedPassword, http.StatusBadRequest},
		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError},
		{
			"wrapped not found",
			fmt.Errorf("loading task: %w", store.ErrTaskNotFound),
			http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("never echoes internal details", func(t *testing.T) {
		t.Parallel()
		internal := errors.New("pq: connection to host db-prod-1 failed")
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(internal))
	})

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()
		msg := GetSafeErrorMessage(domain.ErrForbidden)
		assert.Equal(t, "You do not have access to this resource", msg)
	})

	t.Run("validation error names the field", func(t *testing.T) {
		t.Parallel()
		err := domain.NewValidationError("status", "is not a known status", domain.ErrInvalidTaskStatus)
		assert.Equal(t, "Invalid status: is not a known status", GetSafeErrorMessage(err))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
	)
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
