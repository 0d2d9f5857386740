package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface using a
// PostgreSQL database.
type PostgresTaskStore struct {
	db store.DBTX
}

// Ensure PostgresTaskStore implements store.TaskStore
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

// Create saves a new task.
// Returns store.ErrInvalidEntity if the author or assignee does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, author_id, assignee_id,
		                   status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.AuthorID,
		task.AssigneeID,
		string(task.Status),
		string(task.Priority),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert task", "task_id", task.ID, "error", err)
		return MapError(err)
	}

	return nil
}

// GetByID retrieves a task by its ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, title, description, author_id, assignee_id,
		       status, priority, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return task, nil
}

// Update modifies an existing task in full.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, assignee_id = $3,
		    status = $4, priority = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.AssigneeID,
		string(task.Status),
		string(task.Priority),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task", "task_id", task.ID, "error", err)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete removes a task. Comments go with it via ON DELETE CASCADE.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// List returns a page of tasks matching the filter, newest first.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int, error) {
	return s.list(ctx, filter, page, "", uuid.Nil)
}

// ListByAuthor returns tasks authored by the given user.
func (s *PostgresTaskStore) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int, error) {
	return s.list(ctx, filter, page, "author_id", authorID)
}

// ListByAssignee returns tasks assigned to the given user.
func (s *PostgresTaskStore) ListByAssignee(
	ctx context.Context,
	assigneeID uuid.UUID,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int, error) {
	return s.list(ctx, filter, page, "assignee_id", assigneeID)
}

// list builds the WHERE clause from the filter plus an optional owner
// column and runs the paginated query. The total match count rides
// along as a window aggregate.
func (s *PostgresTaskStore) list(
	ctx context.Context,
	filter store.TaskFilter,
	page store.Page,
	ownerColumn string,
	ownerID uuid.UUID,
) ([]*domain.Task, int, error) {
	log := logger.FromContext(ctx)
	page = page.Normalize()

	where := ""
	args := []interface{}{}
	addCond := func(cond string, value interface{}) {
		args = append(args, value)
		if where == "" {
			where = "WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}

	if ownerColumn != "" {
		addCond(ownerColumn+" = $%d", ownerID)
	}
	if filter.Status != nil {
		addCond("status = $%d", string(*filter.Status))
	}
	if filter.Priority != nil {
		addCond("priority = $%d", string(*filter.Priority))
	}

	countArgs := append([]interface{}{}, args...)
	args = append(args, page.Limit(), page.Offset())

	query := fmt.Sprintf(`
		SELECT id, title, description, author_id, assignee_id,
		       status, priority, created_at, updated_at,
		       COUNT(*) OVER () AS total
		FROM tasks
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", "error", err)
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	var total int
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.AuthorID,
			&task.AssigneeID,
			&task.Status,
			&task.Priority,
			&task.CreatedAt,
			&task.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	if len(tasks) == 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tasks %s`, where)
		if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return nil, 0, MapError(err)
		}
	}

	return tasks, total, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.AuthorID,
		&task.AssigneeID,
		&task.Status,
		&task.Priority,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
