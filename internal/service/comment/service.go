// Package comment implements the comment workflow. Every operation runs
// behind the task-access policy: only the task's author, its assignee
// or an admin may read or add comments, and modification additionally
// requires comment ownership (or being the task's author).
package comment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/access"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Service coordinates comment operations against the comment and task
// stores.
type Service struct {
	comments store.CommentStore
	tasks    store.TaskStore
	logger   *slog.Logger
}

// NewService creates a comment service with the given dependencies.
func NewService(comments store.CommentStore, tasks store.TaskStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		comments: comments,
		tasks:    tasks,
		logger:   log.With(slog.String("component", "comment_service")),
	}
}

// ListByTask returns a page of comments on the task, newest first.
func (s *Service) ListByTask(
	ctx context.Context,
	principal access.Principal,
	taskID uuid.UUID,
	page store.Page,
) ([]*domain.Comment, int, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, 0, err
	}
	if err := access.RequireTaskAccess(principal, task); err != nil {
		return nil, 0, err
	}

	return s.comments.ListByTask(ctx, taskID, page)
}

// Get retrieves a single comment. The principal must have access to the
// comment's task.
func (s *Service) Get(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
) (*domain.Comment, error) {
	comment, _, err := s.guardedComment(ctx, principal, id)
	return comment, err
}

// Create adds a comment to the task on behalf of the principal.
func (s *Service) Create(
	ctx context.Context,
	principal access.Principal,
	taskID uuid.UUID,
	content string,
) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireTaskAccess(principal, task); err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(taskID, principal.ID, content)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	log.Info("comment created", "comment_id", comment.ID, "task_id", taskID)
	return comment, nil
}

// Update rewrites the comment's content. Only the comment's author, the
// task's author or an admin may modify a comment.
func (s *Service) Update(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
	content string,
) (*domain.Comment, error) {
	comment, _, err := s.modifiableComment(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment under the same ownership rule as Update.
func (s *Service) Delete(ctx context.Context, principal access.Principal, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	comment, _, err := s.modifiableComment(ctx, principal, id)
	if err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return err
	}

	log.Info("comment deleted", "comment_id", id, "principal_id", principal.ID)
	return nil
}

// guardedComment loads a comment and its task and checks read access.
func (s *Service) guardedComment(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
) (*domain.Comment, *domain.Task, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	task, err := s.tasks.GetByID(ctx, comment.TaskID)
	if err != nil {
		return nil, nil, err
	}
	if err := access.RequireTaskAccess(principal, task); err != nil {
		return nil, nil, err
	}
	return comment, task, nil
}

// modifiableComment loads a comment and its task and checks the
// stricter modification rule.
func (s *Service) modifiableComment(
	ctx context.Context,
	principal access.Principal,
	id uuid.UUID,
) (*domain.Comment, *domain.Task, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	task, err := s.tasks.GetByID(ctx, comment.TaskID)
	if err != nil {
		return nil, nil, err
	}
	if err := access.RequireCommentOwnership(principal, comment, task); err != nil {
		return nil, nil, err
	}
	return comment, task, nil
}
