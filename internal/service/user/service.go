// Package user implements account management beyond registration:
// profile lookups and updates, admin role changes and account removal.
// Every operation takes the acting principal explicitly and applies the
// authorization policy before touching the store.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/access"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Service coordinates user operations against the user and role stores.
// Listing is admin-only; lookups, updates and deletion are open to the
// account owner or an admin; role changes are admin-only.
type Service struct {
	users  store.UserStore
	roles  store.RoleStore
	logger *slog.Logger
}

// NewService creates a user service with the given dependencies.
func NewService(users store.UserStore, roles store.RoleStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:  users,
		roles:  roles,
		logger: log.With(slog.String("component", "user_service")),
	}
}

// UpdateParams carries the replacement profile state for a user update.
// Password is optional; when empty the stored hash is kept.
type UpdateParams struct {
	Email    string
	Username string
	Password string
}

// List returns a page of users plus the total count. Admin only.
func (s *Service) List(
	ctx context.Context,
	principal access.Principal,
	page store.Page,
) ([]*domain.User, int, error) {
	if err := access.RequireAdmin(principal); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, page)
}

// Get returns a single user. A principal may look up their own account;
// anyone else requires the ADMIN role.
func (s *Service) Get(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
) (*domain.User, error) {
	return s.guardedUser(ctx, principal, id)
}

// Update replaces the user's profile fields. Only the account owner and
// admins may update; a changed email must not collide with another
// account. Roles are never touched here, see ChangeRole.
func (s *Service) Update(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
	params UpdateParams,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.guardedUser(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if params.Email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, params.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, store.ErrEmailExists
		}
	}

	user.Email = params.Email
	user.Username = params.Username
	user.Password = params.Password

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user updated", "user_id", user.ID)
	return user, nil
}

// ChangeRole replaces the user's role set with the single named role.
// Admin only. The refreshed role set takes effect on the user's next
// token refresh; tokens already issued keep their embedded roles until
// they expire.
func (s *Service) ChangeRole(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
	roleName domain.RoleName,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := access.RequireAdmin(principal); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, store.ErrRoleNotFound) {
			return nil, domain.NewValidationError("role", "is unknown", domain.ErrInvalidRole)
		}
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}

	if err := s.users.SetRoles(ctx, user.ID, []domain.Role{*role}); err != nil {
		return nil, err
	}
	user.Roles = []domain.Role{*role}

	log.Info("user role changed", "user_id", user.ID, "role", role.Name)
	return user, nil
}

// Delete removes the account. Only the account owner and admins may
// delete; the user's tasks and comments are removed with it.
func (s *Service) Delete(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.guardedUser(ctx, principal, id); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	log.Info("user deleted", "user_id", id, "deleted_by", principal.ID)
	return nil
}

// guardedUser loads the user and enforces the owner-or-admin rule.
func (s *Service) guardedUser(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
) (*domain.User, error) {
	if id != principal.ID && !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.users.GetByID(ctx, id)
}
