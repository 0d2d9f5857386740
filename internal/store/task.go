package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// TaskFilter narrows task listing queries. Nil fields match everything.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the author or assignee does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update modifies an existing task. The caller provides the complete task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and its comments.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page of tasks matching the filter, newest first,
	// plus the total number of matches.
	List(ctx context.Context, filter TaskFilter, page Page) ([]*domain.Task, int, error)

	// ListByAuthor returns tasks authored by the given user, filtered and paginated.
	ListByAuthor(
		ctx context.Context,
		authorID uuid.UUID,
		filter TaskFilter,
		page Page,
	) ([]*domain.Task, int, error)

	// ListByAssignee returns tasks assigned to the given user, filtered and paginated.
	ListByAssignee(
		ctx context.Context,
		assigneeID uuid.UUID,
		filter TaskFilter,
		page Page,
	) ([]*domain.Task, int, error)
}
