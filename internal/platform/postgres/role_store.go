package postgres

import (
	"context"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresRoleStore implements the store.RoleStore interface using a
// PostgreSQL database. Roles are seeded by migrations and only read at
// runtime.
type PostgresRoleStore struct {
	db store.DBTX
}

// Ensure PostgresRoleStore implements store.RoleStore
var _ store.RoleStore = (*PostgresRoleStore)(nil)

// NewPostgresRoleStore creates a new PostgreSQL implementation of the
// RoleStore interface.
func NewPostgresRoleStore(db store.DBTX) *PostgresRoleStore {
	return &PostgresRoleStore{db: db}
}

// GetByName retrieves a role by its name.
// Returns store.ErrRoleNotFound if the role does not exist.
func (s *PostgresRoleStore) GetByName(
	ctx context.Context,
	name domain.RoleName,
) (*domain.Role, error) {
	var role domain.Role
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM roles WHERE name = $1`,
		string(name),
	).Scan(&role.ID, &role.Name)
	if err != nil {
		if IsNotFound(err) {
			return nil, store.ErrRoleNotFound
		}
		return nil, MapError(err)
	}
	return &role, nil
}
