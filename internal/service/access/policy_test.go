package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/taskhive/taskhive-api/internal/domain"
)

func userPrincipal() Principal {
	return Principal{ID: uuid.New(), Roles: []string{"ROLE_USER"}}
}

func adminPrincipal() Principal {
	return Principal{ID: uuid.New(), Roles: []string{"ROLE_USER", "ROLE_ADMIN"}}
}

func TestCanAccessTask(t *testing.T) {
	t.Parallel()

	author := userPrincipal()
	assignee := userPrincipal()
	stranger := userPrincipal()
	admin := adminPrincipal()

	task := &domain.Task{
		ID:         uuid.New(),
		Title:      "Ship release",
		AuthorID:   author.ID,
		AssigneeID: &assignee.ID,
		Status:     domain.TaskStatusPending,
		Priority:   domain.TaskPriorityMedium,
	}

	tests := []struct {
		name      string
		principal Principal
		want      bool
	}{
		{"author", author, true},
		{"assignee", assignee, true},
		{"admin", admin, true},
		{"unrelated user", stranger, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanAccessTask(tt.principal, task))
		})
	}

	t.Run("no assignee", func(t *testing.T) {
		t.Parallel()
		unassigned := &domain.Task{ID: uuid.New(), AuthorID: author.ID}
		assert.True(t, CanAccessTask(author, unassigned))
		assert.False(t, CanAccessTask(assignee, unassigned))
	})
}

func TestCanModifyComment(t *testing.T) {
	t.Parallel()

	taskAuthor := userPrincipal()
	commentAuthor := userPrincipal()
	assignee := userPrincipal()
	stranger := userPrincipal()
	admin := adminPrincipal()

	task := &domain.Task{
		ID:         uuid.New(),
		AuthorID:   taskAuthor.ID,
		AssigneeID: &assignee.ID,
	}
	comment := &domain.Comment{
		ID:       uuid.New(),
		TaskID:   task.ID,
		AuthorID: commentAuthor.ID,
		Content:  "looks good",
	}

	tests := []struct {
		name      string
		principal Principal
		want      bool
	}{
		{"comment author", commentAuthor, true},
		{"task author", taskAuthor, true},
		{"admin", admin, true},
		// The assignee may read comments but not touch other people's.
		{"assignee", assignee, false},
		{"unrelated user", stranger, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanModifyComment(tt.principal, comment, task))
		})
	}
}

func TestPolicyIsPure(t *testing.T) {
	t.Parallel()

	// Repeated evaluation over the same inputs gives the same answer and
	// leaves the inputs untouched.
	p := userPrincipal()
	task := &domain.Task{ID: uuid.New(), AuthorID: p.ID}

	before := *task
	for i := 0; i < 3; i++ {
		assert.True(t, CanAccessTask(p, task))
	}
	assert.Equal(t, before, *task)
}

func TestRequireHelpers(t *testing.T) {
	t.Parallel()

	stranger := userPrincipal()
	admin := adminPrincipal()
	task := &domain.Task{ID: uuid.New(), AuthorID: uuid.New()}

	assert.ErrorIs(t, RequireTaskAccess(stranger, task), domain.ErrForbidden)
	assert.NoError(t, RequireTaskAccess(admin, task))

	comment := &domain.Comment{ID: uuid.New(), TaskID: task.ID, AuthorID: uuid.New()}
	assert.ErrorIs(t, RequireCommentOwnership(stranger, comment, task), domain.ErrForbidden)
	assert.NoError(t, RequireCommentOwnership(admin, comment, task))

	assert.ErrorIs(t, RequireAdmin(stranger), domain.ErrForbidden)
	assert.NoError(t, RequireAdmin(admin))
}
