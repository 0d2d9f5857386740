package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store along with its role
	// assignments. It handles domain validation and password hashing
	// internally.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID, roles included.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address, roles included.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ExistsByEmail reports whether a user with the given email exists
	// without loading the full record.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List returns a page of users ordered by creation time plus the
	// total number of users.
	List(ctx context.Context, page Page) ([]*domain.User, int, error)

	// Update saves changes to an existing user's email, username and,
	// when the Password field is set, a fresh password hash. Role
	// assignments are not touched; use SetRoles.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists if the new email is already taken.
	Update(ctx context.Context, user *domain.User) error

	// SetRoles replaces the user's role assignments with the given set.
	SetRoles(ctx context.Context, userID uuid.UUID, roles []domain.Role) error

	// Delete removes a user. Authored tasks and comments go with it via
	// the schema's cascade rules.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}

// RoleStore defines the interface for role lookups. The role set is
// seeded by migrations and read-only at runtime.
type RoleStore interface {
	// GetByName retrieves a role by its name.
	// Returns ErrRoleNotFound if the role does not exist.
	GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
}
