package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()
	roles := []string{"ROLE_USER", "ROLE_ADMIN"}

	svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	t.Run("generates valid token with roles", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateToken(context.Background(), userID, roles)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, roles, claims.Roles)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, userID.String(), claims.Subject)
		// Compare Unix timestamps to avoid timezone issues
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("refresh token carries no roles", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Empty(t, claims.Roles)
		assert.Equal(t, "refresh", claims.TokenType)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := svc.GenerateToken(context.Background(), userID, nil)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				genSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := genSvc.GenerateToken(context.Background(), userID, nil)

				// Validate token at a later time (after expiry)
				valSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime.Add(tokenLifetime + time.Hour)
				})
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				genSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := genSvc.GenerateToken(context.Background(), userID, nil)

				valSvc := NewTestJWTService(wrongSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return svc, "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token rejected as access token",
			setupFunc: func() (JWTService, string) {
				svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := svc.GenerateRefreshToken(context.Background(), userID)
				return svc, token
			},
			wantErr: ErrWrongTokenType,
		},
		{
			name: "signed token without exp rejected",
			setupFunc: func() (JWTService, string) {
				svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				// Hand-sign a token that never expires because it carries
				// no exp claim at all.
				claims := jwtCustomClaims{
					UserID:    userID,
					TokenType: tokenTypeAccess,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:  userID.String(),
						IssuedAt: jwt.NewNumericDate(fixedTime),
						ID:       uuid.New().String(),
					},
				}
				token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
					SignedString([]byte(testSecret))
				return svc, token
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
				assert.Equal(t, userID, claims.UserID)
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		t.Parallel()
		svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
			return fixedTime
		})
		token, err := svc.GenerateToken(context.Background(), userID, nil)
		require.NoError(t, err)

		_, err = svc.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		t.Parallel()
		genSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
			return fixedTime
		})
		token, err := genSvc.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		// Refresh lifetime in the test service is 24x the access lifetime.
		valSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
			return fixedTime.Add(25 * tokenLifetime)
		})
		_, err = valSvc.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	})
}

func TestExtractClaims(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	t.Run("reads claims off an expired token", func(t *testing.T) {
		t.Parallel()
		genSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
			return fixedTime
		})
		token, err := genSvc.GenerateToken(context.Background(), userID, []string{"ROLE_USER"})
		require.NoError(t, err)

		valSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
			return fixedTime.Add(48 * time.Hour)
		})

		// ValidateToken refuses it...
		_, err = valSvc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)

		// ...but ExtractClaims still yields the original expiry.
		claims, err := valSvc.ExtractClaims(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("still verifies the signature", func(t *testing.T) {
		t.Parallel()
		genSvc := NewTestJWTService(testSecret, tokenLifetime, nil)
		token, err := genSvc.GenerateToken(context.Background(), userID, nil)
		require.NoError(t, err)

		valSvc := NewTestJWTService("another-secret-that-is-long-enough-here", tokenLifetime, nil)
		_, err = valSvc.ExtractClaims(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
