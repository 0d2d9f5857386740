// Package access implements the authorization policy: pure predicates
// over (principal, resource) pairs. Policy evaluation never mutates
// state, so the same predicates serve both as request gates and as
// standalone checks.
package access

import (
	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// Principal is the authenticated identity a request acts as. It is
// built from validated token claims by the auth middleware and passed
// explicitly into every service call.
type Principal struct {
	ID    uuid.UUID
	Roles []string
}

// NewPrincipal builds a Principal from a user entity.
func NewPrincipal(user *domain.User) Principal {
	return Principal{ID: user.ID, Roles: user.RoleNames()}
}

// HasRole reports whether the principal holds the named role.
func (p Principal) HasRole(name domain.RoleName) bool {
	for _, r := range p.Roles {
		if r == string(name) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.HasRole(domain.RoleAdmin)
}

// IsTaskAuthor reports whether the principal authored the task.
func IsTaskAuthor(p Principal, task *domain.Task) bool {
	return task != nil && task.AuthorID == p.ID
}

// IsTaskAssignee reports whether the principal is the task's assignee.
func IsTaskAssignee(p Principal, task *domain.Task) bool {
	return task != nil && task.AssigneeID != nil && *task.AssigneeID == p.ID
}

// CanAccessTask reports whether the principal may read the task's
// comments or mutate the task: admins, the author and the assignee.
func CanAccessTask(p Principal, task *domain.Task) bool {
	return p.IsAdmin() || IsTaskAuthor(p, task) || IsTaskAssignee(p, task)
}

// CanModifyComment reports whether the principal may update or delete
// the comment: admins, the comment's author and the task's author.
func CanModifyComment(p Principal, comment *domain.Comment, task *domain.Task) bool {
	if p.IsAdmin() {
		return true
	}
	if comment != nil && comment.AuthorID == p.ID {
		return true
	}
	return IsTaskAuthor(p, task)
}

// RequireTaskAccess returns domain.ErrForbidden unless CanAccessTask
// holds. Services call this at the top of each guarded operation.
func RequireTaskAccess(p Principal, task *domain.Task) error {
	if !CanAccessTask(p, task) {
		return domain.ErrForbidden
	}
	return nil
}

// RequireCommentOwnership returns domain.ErrForbidden unless
// CanModifyComment holds.
func RequireCommentOwnership(p Principal, comment *domain.Comment, task *domain.Task) error {
	if !CanModifyComment(p, comment, task) {
		return domain.ErrForbidden
	}
	return nil
}

// RequireAdmin returns domain.ErrForbidden unless the principal is an admin.
func RequireAdmin(p Principal) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
