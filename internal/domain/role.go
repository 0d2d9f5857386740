package domain

import "github.com/google/uuid"

// RoleName identifies one of the closed set of roles a user may hold.
type RoleName string

// Known role names. The set is closed: anything else fails validation.
const (
	RoleUser  RoleName = "ROLE_USER"
	RoleAdmin RoleName = "ROLE_ADMIN"
)

// Valid reports whether the role name belongs to the known set.
func (n RoleName) Valid() bool {
	switch n {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Role represents a named role as stored in the roles table.
type Role struct {
	ID   uuid.UUID `json:"id"`
	Name RoleName  `json:"name"`
}

// Validate checks if the Role has valid data.
func (r *Role) Validate() error {
	if r.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if !r.Name.Valid() {
		return NewValidationError("name", "is not a known role", ErrInvalidRole)
	}
	return nil
}
