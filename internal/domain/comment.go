package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a comment on a task. A comment belongs to exactly
// one task and one authoring user.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewComment creates a new Comment on the given task by the given author.
func NewComment(taskID, authorID uuid.UUID, content string) (*Comment, error) {
	now := time.Now().UTC()
	comment := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.TaskID == uuid.Nil {
		return NewValidationError("task_id", "cannot be empty", ErrInvalidID)
	}
	if c.AuthorID == uuid.Nil {
		return NewValidationError("author_id", "cannot be empty", ErrInvalidID)
	}
	if c.Content == "" {
		return NewValidationError("content", "cannot be empty", ErrEmptyContent)
	}
	return nil
}
