package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface using a
// PostgreSQL database. It hashes passwords with bcrypt before they
// ever reach a table.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
}

// Ensure PostgresUserStore implements store.UserStore
var _ store.UserStore = (*PostgresUserStore)(nil)

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. The database connection is initialized and
// managed by the caller. bcryptCost falls back to bcrypt.DefaultCost
// when it is out of the legal range.
func NewPostgresUserStore(db store.DBTX, bcryptCost int) *PostgresUserStore {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
	}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:         tx,
		bcryptCost: s.bcryptCost,
	}
}

// Create saves a new user and its role assignments. The plaintext
// password is hashed here; the Password field is cleared afterwards so
// it cannot leak further down the call stack.
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return err
	}

	if user.HashedPassword == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password", "error", err)
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = string(hashed)
	}
	user.Password = ""

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	// The user row and its role assignments must land together. When the
	// store is backed by a plain connection pool, open a transaction for
	// the inserts; when it is already bound to one, run in it directly.
	if db, ok := s.db.(*sql.DB); ok {
		return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return s.insert(ctx, tx, user)
		})
	}
	return s.insert(ctx, s.db, user)
}

func (s *PostgresUserStore) insert(ctx context.Context, db store.DBTX, user *domain.User) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO users (id, email, username, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		log.Error("failed to insert user", "error", err)
		return MapError(err)
	}

	for _, role := range user.Roles {
		_, err := db.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
			user.ID, role.ID,
		)
		if err != nil {
			log.Error("failed to assign role",
				"user_id", user.ID,
				"role", role.Name,
				"error", err)
			return MapError(err)
		}
	}

	return nil
}

// GetByID retrieves a user by ID, roles included.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, username, hashed_password, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.getUser(ctx, query, id)
}

// GetByEmail retrieves a user by email, roles included.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, username, hashed_password, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return s.getUser(ctx, query, email)
}

// getUser runs a single-row user query and attaches the user's roles.
func (s *PostgresUserStore) getUser(
	ctx context.Context,
	query string,
	arg interface{},
) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if IsNotFound(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}

	roles, err := s.loadRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return &user, nil
}

// Update saves changes to an existing user's email, username and, when
// the Password field carries a fresh plaintext, a new password hash.
// Returns store.ErrUserNotFound if the user does not exist and
// store.ErrEmailExists when the new email collides with another user.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return err
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password", "error", err)
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = string(hashed)
	}
	user.Password = ""
	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $2, username = $3, hashed_password = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.HashedPassword,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		log.Error("failed to update user", "user_id", user.ID, "error", err)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// SetRoles replaces the user's role assignments with the given set. The
// delete and re-insert land in one transaction when the store is backed
// by a connection pool.
func (s *PostgresUserStore) SetRoles(
	ctx context.Context,
	userID uuid.UUID,
	roles []domain.Role,
) error {
	if db, ok := s.db.(*sql.DB); ok {
		return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return s.setRoles(ctx, tx, userID, roles)
		})
	}
	return s.setRoles(ctx, s.db, userID, roles)
}

func (s *PostgresUserStore) setRoles(
	ctx context.Context,
	db store.DBTX,
	userID uuid.UUID,
	roles []domain.Role,
) error {
	log := logger.FromContext(ctx)

	if _, err := db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = $1`, userID,
	); err != nil {
		log.Error("failed to clear roles", "user_id", userID, "error", err)
		return MapError(err)
	}

	for _, role := range roles {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
			userID, role.ID,
		); err != nil {
			log.Error("failed to assign role",
				"user_id", userID,
				"role", role.Name,
				"error", err)
			return MapError(err)
		}
	}

	return nil
}

// Delete removes a user. Role assignments, authored tasks and comments
// go with it through the schema's ON DELETE CASCADE rules.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// ExistsByEmail reports whether a user with the given email exists.
func (s *PostgresUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// List returns a page of users ordered by creation time, plus the
// total number of users.
func (s *PostgresUserStore) List(
	ctx context.Context,
	page store.Page,
) ([]*domain.User, int, error) {
	log := logger.FromContext(ctx)
	page = page.Normalize()

	query := `
		SELECT id, email, username, hashed_password, created_at, updated_at,
		       COUNT(*) OVER () AS total
		FROM users
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		log.Error("failed to list users", "error", err)
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	var total int
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Username,
			&user.HashedPassword,
			&user.CreatedAt,
			&user.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	if len(users) == 0 {
		// The window count disappears with the rows; fetch it separately.
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
			return nil, 0, MapError(err)
		}
		return users, total, nil
	}

	for _, user := range users {
		roles, err := s.loadRoles(ctx, user.ID)
		if err != nil {
			return nil, 0, err
		}
		user.Roles = roles
	}

	return users, total, nil
}

// loadRoles fetches the roles assigned to a user.
func (s *PostgresUserStore) loadRoles(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return roles, nil
}
