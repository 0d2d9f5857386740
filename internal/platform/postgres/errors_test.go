package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/store"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows maps to not found", sql.ErrNoRows, store.ErrNotFound},
		{
			"wrapped no rows maps to not found",
			fmt.Errorf("query user: %w", sql.ErrNoRows),
			store.ErrNotFound,
		},
		{
			"unique violation maps to duplicate",
			pgError(uniqueViolationCode, "users_email_key"),
			store.ErrDuplicate,
		},
		{
			"foreign key violation maps to invalid entity",
			pgError(foreignKeyViolationCode, "tasks_assignee_id_fkey"),
			store.ErrInvalidEntity,
		},
		{
			"check violation maps to invalid entity",
			pgError(checkViolationCode, "tasks_status_check"),
			store.ErrInvalidEntity,
		},
		{
			"not null violation maps to invalid entity",
			pgError(notNullViolationCode, ""),
			store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	t.Run("unknown errors pass through unchanged", func(t *testing.T) {
		t.Parallel()
		sentinel := errors.New("connection reset")
		assert.Equal(t, sentinel, MapError(sentinel))
	})
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	unique := pgError(uniqueViolationCode, "users_email_key")
	fk := pgError(foreignKeyViolationCode, "comments_task_id_fkey")

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))

	// Wrapped driver errors still match.
	wrapped := fmt.Errorf("insert comment: %w", fk)
	assert.True(t, IsForeignKeyViolation(wrapped))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(sql.ErrNoRows))
	assert.True(t, IsNotFound(store.ErrTaskNotFound))
	assert.False(t, IsNotFound(store.ErrDuplicate))
	assert.False(t, IsNotFound(nil))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrTaskNotFound))
	})

	t.Run("zero rows returns the not-found sentinel", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rows affected error is wrapped", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("driver does not support RowsAffected")
		err := CheckRowsAffected(fakeResult{err: cause}, store.ErrTaskNotFound)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, store.ErrTaskNotFound))
	})
}
