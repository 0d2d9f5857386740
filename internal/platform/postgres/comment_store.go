package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresCommentStore implements the store.CommentStore interface
// using a PostgreSQL database.
type PostgresCommentStore struct {
	db store.DBTX
}

// Ensure PostgresCommentStore implements store.CommentStore
var _ store.CommentStore = (*PostgresCommentStore)(nil)

// NewPostgresCommentStore creates a new PostgreSQL implementation of
// the CommentStore interface.
func NewPostgresCommentStore(db store.DBTX) *PostgresCommentStore {
	return &PostgresCommentStore{db: db}
}

// Create saves a new comment.
// Returns store.ErrInvalidEntity if the task or author does not exist.
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContext(ctx)

	if err := comment.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO comments (id, task_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.TaskID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert comment",
			"comment_id", comment.ID,
			"task_id", comment.TaskID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID retrieves a comment by its ID.
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Comment, error) {
	query := `
		SELECT id, task_id, author_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var comment domain.Comment
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.TaskID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if IsNotFound(err) {
			return nil, store.ErrCommentNotFound
		}
		return nil, MapError(err)
	}
	return &comment, nil
}

// Update modifies an existing comment's content.
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE comments
		SET content = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query,
		comment.Content,
		comment.UpdatedAt,
		comment.ID,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// Delete removes a comment.
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// ListByTask returns a page of comments on the given task, newest
// first, plus the total number of comments on the task.
func (s *PostgresCommentStore) ListByTask(
	ctx context.Context,
	taskID uuid.UUID,
	page store.Page,
) ([]*domain.Comment, int, error) {
	log := logger.FromContext(ctx)
	page = page.Normalize()

	query := `
		SELECT id, task_id, author_id, content, created_at, updated_at,
		       COUNT(*) OVER () AS total
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, taskID, page.Limit(), page.Offset())
	if err != nil {
		log.Error("failed to list comments", "task_id", taskID, "error", err)
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var comments []*domain.Comment
	var total int
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TaskID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	if len(comments) == 0 {
		countQuery := `SELECT COUNT(*) FROM comments WHERE task_id = $1`
		if err := s.db.QueryRowContext(ctx, countQuery, taskID).Scan(&total); err != nil {
			return nil, 0, MapError(err)
		}
	}

	return comments, total, nil
}
