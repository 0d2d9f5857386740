package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// Request DTOs

// RegisterRequest defines the payload for the user registration endpoint.
// Roles is optional; omitted means the baseline USER role.
type RegisterRequest struct {
	Email    string   `json:"email"    validate:"required,email"`
	Username string   `json:"username" validate:"required,min=2,max=64"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Roles    []string `json:"roles,omitempty" validate:"omitempty,dive,oneof=ROLE_USER ROLE_ADMIN"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserUpdateRequest defines the replacement profile payload for a user.
// Password is optional; omitted keeps the current one. Roles are not
// part of the profile; admins change them through the role endpoint.
type UserUpdateRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// UserRoleRequest defines the payload for an admin role change.
type UserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ROLE_USER ROLE_ADMIN"`
}

// TaskCreateRequest defines the payload for task creation. Status and
// Priority default to PENDING and MEDIUM when omitted.
type TaskCreateRequest struct {
	Title       string  `json:"title"       validate:"required,max=255"`
	Description string  `json:"description" validate:"max=4000"`
	Status      *string `json:"status,omitempty"   validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssigneeID  *string `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
}

// TaskUpdateRequest defines the full replacement payload for a task.
type TaskUpdateRequest struct {
	Title       string  `json:"title"       validate:"required,max=255"`
	Description string  `json:"description" validate:"max=4000"`
	Status      string  `json:"status"      validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Priority    string  `json:"priority"    validate:"required,oneof=LOW MEDIUM HIGH"`
	AssigneeID  *string `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
}

// TaskStatusRequest defines the payload for a status transition.
type TaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

// TaskPriorityRequest defines the payload for a priority change.
type TaskPriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
}

// CommentRequest defines the payload for creating or updating a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// Response DTOs

// UserResponse is the public view of a user. Credentials never appear.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Roles:     user.RoleNames(),
		CreatedAt: user.CreatedAt,
	}
}

// LoginResponse defines the successful response for the login endpoint.
// Login issues only an access token; refresh tokens come from the
// refresh endpoint.
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   string       `json:"expires_at"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AuthorID    uuid.UUID  `json:"author_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTaskResponse maps a domain task to its public view.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		AuthorID:    task.AuthorID,
		AssigneeID:  task.AssigneeID,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCommentResponse maps a domain comment to its public view.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// PageResponse wraps a paginated listing with its total count.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
