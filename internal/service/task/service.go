// Package task implements the task workflow: CRUD over tasks plus the
// status/priority/assignment transitions, with the authorization policy
// applied explicitly at the top of every mutating operation.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/access"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Service coordinates task operations against the task store. Reads are
// open to any authenticated principal; mutations are restricted to the
// task's author, its assignee, or an admin.
type Service struct {
	tasks  store.TaskStore
	users  store.UserStore
	logger *slog.Logger
}

// NewService creates a task service with the given dependencies.
func NewService(tasks store.TaskStore, users store.UserStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		tasks:  tasks,
		users:  users,
		logger: log.With(slog.String("component", "task_service")),
	}
}

// CreateParams carries the inputs for task creation. Status and
// Priority are optional; new tasks default to PENDING and MEDIUM.
type CreateParams struct {
	Title       string
	Description string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	AssigneeID  *uuid.UUID
}

// UpdateParams carries the full replacement state for a task update.
type UpdateParams struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssigneeID  *uuid.UUID
}

// List returns a page of all tasks matching the filter.
func (s *Service) List(
	ctx context.Context,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int, error) {
	return s.tasks.List(ctx, filter, page)
}

// ListMine returns tasks authored by the principal.
func (s *Service) ListMine(
	ctx context.Context,
	principal access.Principal,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int, error) {
	return s.tasks.ListByAuthor(ctx, principal.ID, filter, page)
}

// ListAssigned returns tasks assigned to the principal.
func (s *Service) ListAssigned(
	ctx context.Context,
	principal access.Principal,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int, error) {
	return s.tasks.ListByAssignee(ctx, principal.ID, filter, page)
}

// Get retrieves a task by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// Create makes a new task authored by the principal. An assignee, a
// non-default status or a non-default priority may be set at creation.
func (s *Service) Create(
	ctx context.Context,
	principal access.Principal,
	params CreateParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(principal.ID, params.Title, params.Description)
	if err != nil {
		return nil, err
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.AssigneeID != nil {
		if err := s.requireUser(ctx, *params.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = params.AssigneeID
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task created", "task_id", task.ID, "author_id", task.AuthorID)
	return task, nil
}

// Update replaces the task's mutable fields. Only the author, the
// assignee or an admin may update a task.
func (s *Service) Update(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
	params UpdateParams,
) (*domain.Task, error) {
	task, err := s.guardedTask(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if params.AssigneeID != nil && !sameAssignee(task.AssigneeID, params.AssigneeID) {
		if err := s.requireUser(ctx, *params.AssigneeID); err != nil {
			return nil, err
		}
	}

	task.Title = params.Title
	task.Description = params.Description
	task.Status = params.Status
	task.Priority = params.Priority
	task.AssigneeID = params.AssigneeID
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateStatus moves the task to a new lifecycle state.
func (s *Service) UpdateStatus(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "is not a known status", domain.ErrInvalidTaskStatus)
	}

	task, err := s.guardedTask(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdatePriority changes the task's priority.
func (s *Service) UpdatePriority(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
	priority domain.TaskPriority,
) (*domain.Task, error) {
	if !priority.Valid() {
		return nil, domain.NewValidationError("priority", "is not a known priority", domain.ErrInvalidTaskPriority)
	}

	task, err := s.guardedTask(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	task.Priority = priority
	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Assign hands the task to another user. The assignee must exist;
// store.ErrUserNotFound otherwise.
func (s *Service) Assign(
	ctx context.Context,
	principal access.Principal,
	taskID uuid.UUID,
	assigneeID uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.guardedTask(ctx, principal, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireUser(ctx, assigneeID); err != nil {
		return nil, err
	}

	task.AssigneeID = &assigneeID
	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task assigned", "task_id", task.ID, "assignee_id", assigneeID)
	return task, nil
}

// Delete removes the task and its comments.
func (s *Service) Delete(ctx context.Context, principal access.Principal, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.guardedTask(ctx, principal, id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	log.Info("task deleted", "task_id", id, "principal_id", principal.ID)
	return nil
}

// guardedTask loads a task and checks the principal may mutate it.
func (s *Service) guardedTask(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireTaskAccess(principal, task); err != nil {
		return nil, err
	}
	return task, nil
}

// requireUser verifies the referenced user exists.
func (s *Service) requireUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return store.ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	return nil
}

func sameAssignee(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
