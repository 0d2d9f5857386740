package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(authorID, "Ship release", "cut the 1.4 tag")
		require.NoError(t, err)

		assert.Equal(t, authorID, task.AuthorID)
		assert.Equal(t, TaskStatusPending, task.Status)
		assert.Equal(t, TaskPriorityMedium, task.Priority)
		assert.Nil(t, task.AssigneeID)
	})

	t.Run("requires title", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(authorID, "", "no title")
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("requires author", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(uuid.Nil, "Ship release", "")
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Task {
		return &Task{
			ID:       uuid.New(),
			Title:    "Ship release",
			AuthorID: uuid.New(),
			Status:   TaskStatusPending,
			Priority: TaskPriorityMedium,
		}
	}

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid().Validate())
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		task := valid()
		task.Status = TaskStatus("ARCHIVED")
		assert.ErrorIs(t, task.Validate(), ErrInvalidTaskStatus)
	})

	t.Run("unknown priority", func(t *testing.T) {
		t.Parallel()
		task := valid()
		task.Priority = TaskPriority("URGENT")
		assert.ErrorIs(t, task.Validate(), ErrInvalidTaskPriority)
	})

	t.Run("zero assignee rejected", func(t *testing.T) {
		t.Parallel()
		task := valid()
		zero := uuid.Nil
		task.AssigneeID = &zero
		assert.ErrorIs(t, task.Validate(), ErrInvalidID)
	})
}

func TestTaskEnums(t *testing.T) {
	t.Parallel()

	assert.True(t, TaskStatusInProgress.Valid())
	assert.True(t, TaskStatusCancelled.Valid())
	assert.False(t, TaskStatus("DONE").Valid())

	assert.True(t, TaskPriorityHigh.Valid())
	assert.False(t, TaskPriority("").Valid())
}

func TestNewComment(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()
	authorID := uuid.New()

	t.Run("creates valid comment", func(t *testing.T) {
		t.Parallel()
		comment, err := NewComment(taskID, authorID, "looks good")
		require.NoError(t, err)
		assert.Equal(t, taskID, comment.TaskID)
		assert.Equal(t, authorID, comment.AuthorID)
	})

	t.Run("requires content", func(t *testing.T) {
		t.Parallel()
		_, err := NewComment(taskID, authorID, "")
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("requires task", func(t *testing.T) {
		t.Parallel()
		_, err := NewComment(uuid.Nil, authorID, "looks good")
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}
