package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/access"
	"github.com/taskhive/taskhive-api/internal/store"
)

// CommentService is the slice of the comment service the handler needs.
type CommentService interface {
	ListByTask(
		ctx context.Context,
		principal access.Principal,
		taskID uuid.UUID,
		page store.Page,
	) ([]*domain.Comment, int, error)
	Get(ctx context.Context, principal access.Principal, id uuid.UUID) (*domain.Comment, error)
	Create(
		ctx context.Context,
		principal access.Principal,
		taskID uuid.UUID,
		content string,
	) (*domain.Comment, error)
	Update(
		ctx context.Context,
		principal access.Principal,
		id uuid.UUID,
		content string,
	) (*domain.Comment, error)
	Delete(ctx context.Context, principal access.Principal, id uuid.UUID) error
}

// CommentHandler handles comment-related API requests.
type CommentHandler struct {
	commentService CommentService
}

// NewCommentHandler creates a new CommentHandler with the given dependencies.
func NewCommentHandler(commentService CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListByTask handles GET /api/tasks/{id}/comments.
func (h *CommentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	page := parsePage(r)

	comments, total, err := h.commentService.ListByTask(r.Context(), principal, taskID, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		items = append(items, NewCommentResponse(c))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PageResponse[CommentResponse]{
		Items:    items,
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	})
}

// Create handles POST /api/tasks/{id}/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.commentService.Create(r.Context(), principal, taskID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewCommentResponse(created))
}

// Get handles GET /api/comments/{id}.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	comment, err := h.commentService.Get(r.Context(), principal, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCommentResponse(comment))
}

// Update handles PUT /api/comments/{id}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.commentService.Update(r.Context(), principal, id, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCommentResponse(updated))
}

// Delete handles DELETE /api/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.commentService.Delete(r.Context(), principal, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
