package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// AuthService implements the authentication flow: credential login,
// registration, token refresh and logout. All methods take the principal
// or token explicitly; there is no ambient current-user state.
type AuthService struct {
	userStore        store.UserStore
	roleStore        store.RoleStore
	jwtService       JWTService
	passwordVerifier PasswordVerifier
	blacklist        store.TokenBlacklist
	tokenLifetime    time.Duration
	logger           *slog.Logger
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(
	userStore store.UserStore,
	roleStore store.RoleStore,
	jwtService JWTService,
	passwordVerifier PasswordVerifier,
	blacklist store.TokenBlacklist,
	cfg config.AuthConfig,
	log *slog.Logger,
) *AuthService {
	if log == nil {
		log = slog.Default()
	}

	return &AuthService{
		userStore:        userStore,
		roleStore:        roleStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		blacklist:        blacklist,
		tokenLifetime:    time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		logger:           log.With(slog.String("component", "auth_service")),
	}
}

// LoginResult carries the outcome of a successful login. Only an access
// token is issued at login; refresh tokens come from the refresh endpoint.
type LoginResult struct {
	User        *domain.User
	AccessToken string
	ExpiresAt   time.Time
}

// TokenPair carries a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RegisterParams carries the inputs for user registration. RoleNames is
// optional; when empty the baseline USER role is assigned.
type RegisterParams struct {
	Email     string
	Password  string
	Username  string
	RoleNames []string
}

// Login verifies the credentials and issues an access token bound to the
// user's current roles. Both an unknown email and a wrong password
// surface as ErrAuthenticationFailed so callers cannot probe for
// registered addresses.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrAuthenticationFailed
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID, user.RoleNames())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	expiresAt, err := s.tokenExpiry(ctx, token)
	if err != nil {
		return nil, err
	}

	log.Info("user logged in", "user_id", user.ID)
	return &LoginResult{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// tokenExpiry reads the exp claim back off a freshly signed token so the
// advertised expiry always matches the claim, whatever clock the JWT
// service was built with.
func (s *AuthService) tokenExpiry(ctx context.Context, token string) (time.Time, error) {
	claims, err := s.jwtService.ExtractClaims(ctx, token)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read token expiry: %w", err)
	}
	return claims.ExpiresAt, nil
}

// Register creates a new user. Fails with store.ErrEmailExists when the
// email is already taken, without writing anything. The password is
// stored only as a one-way hash (hashing happens inside the user store).
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	taken, err := s.userStore.ExistsByEmail(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, store.ErrEmailExists
	}

	roles, err := s.resolveRoles(ctx, params.RoleNames)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(params.Email, params.Password, params.Username)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user registered", "user_id", user.ID, "roles", user.RoleNames())
	return user, nil
}

// Refresh redeems a refresh token for a fresh access/refresh pair. The
// new access token carries the user's CURRENT stored roles, not the roles
// at the old token's issuance, so role changes take effect on refresh.
// The old refresh token is not invalidated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.Contains(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked {
		return nil, ErrRefreshTokenRevoked
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// The account is gone; the token is as good as invalid.
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	accessToken, err := s.jwtService.GenerateToken(ctx, user.ID, user.RoleNames())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, err := s.jwtService.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt, err := s.tokenExpiry(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// Logout records the access token in the blacklist with its original
// expiry. Logging out twice with the same token is a no-op success. A
// token that fails signature verification is rejected with
// ErrInvalidToken.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Signature check only: an already expired token may still be logged
	// out, the blacklist treats it as a no-op.
	claims, err := s.jwtService.ExtractClaims(ctx, accessToken)
	if err != nil {
		return err
	}

	if err := s.blacklist.Record(ctx, accessToken, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	log.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// resolveRoles maps requested role names to stored roles, defaulting to
// the baseline USER role when none are requested.
func (s *AuthService) resolveRoles(ctx context.Context, names []string) ([]domain.Role, error) {
	if len(names) == 0 {
		role, err := s.roleStore.GetByName(ctx, domain.RoleUser)
		if err != nil {
			return nil, fmt.Errorf("failed to load default role: %w", err)
		}
		return []domain.Role{*role}, nil
	}

	roles := make([]domain.Role, 0, len(names))
	for _, name := range names {
		roleName := domain.RoleName(name)
		if !roleName.Valid() {
			return nil, domain.NewValidationError("roles", "contains unknown role "+name, domain.ErrInvalidRole)
		}
		role, err := s.roleStore.GetByName(ctx, roleName)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, nil
}
