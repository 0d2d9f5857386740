package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/access"
	"github.com/taskhive/taskhive-api/internal/service/task"
	"github.com/taskhive/taskhive-api/internal/store"
)

// TaskService is the slice of the task service the handler needs.
type TaskService interface {
	List(ctx context.Context, filter store.TaskFilter, page store.Page) ([]*domain.Task, int, error)
	ListMine(
		ctx context.Context,
		principal access.Principal,
		filter store.TaskFilter,
		page store.Page,
	) ([]*domain.Task, int, error)
	ListAssigned(
		ctx context.Context,
		principal access.Principal,
		filter store.TaskFilter,
		page store.Page,
	) ([]*domain.Task, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Create(ctx context.Context, principal access.Principal, params task.CreateParams) (*domain.Task, error)
	Update(
		ctx context.Context,
		principal access.Principal,
		id uuid.UUID,
		params task.UpdateParams,
	) (*domain.Task, error)
	UpdateStatus(
		ctx context.Context,
		principal access.Principal,
		id uuid.UUID,
		status domain.TaskStatus,
	) (*domain.Task, error)
	UpdatePriority(
		ctx context.Context,
		principal access.Principal,
		id uuid.UUID,
		priority domain.TaskPriority,
	) (*domain.Task, error)
	Assign(
		ctx context.Context,
		principal access.Principal,
		taskID uuid.UUID,
		assigneeID uuid.UUID,
	) (*domain.Task, error)
	Delete(ctx context.Context, principal access.Principal, id uuid.UUID) error
}

// TaskHandler handles task-related API requests.
type TaskHandler struct {
	taskService TaskService
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	page := parsePage(r)

	tasks, total, err := h.taskService.List(r.Context(), filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	respondTaskPage(w, r, tasks, total, page)
}

// ListMine handles GET /api/tasks/my.
func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	page := parsePage(r)

	tasks, total, err := h.taskService.ListMine(r.Context(), principal, filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	respondTaskPage(w, r, tasks, total, page)
}

// ListAssigned handles GET /api/tasks/assigned.
func (h *TaskHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	page := parsePage(r)

	tasks, total, err := h.taskService.ListAssigned(r.Context(), principal, filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	respondTaskPage(w, r, tasks, total, page)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	found, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(found))
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	var req TaskCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := task.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  parseOptionalUUID(req.AssigneeID),
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		params.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		params.Priority = &priority
	}

	created, err := h.taskService.Create(r.Context(), principal, params)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(created))
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req TaskUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.taskService.Update(r.Context(), principal, id, task.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AssigneeID:  parseOptionalUUID(req.AssigneeID),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(updated))
}

// UpdateStatus handles PATCH /api/tasks/{id}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req TaskStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.taskService.UpdateStatus(r.Context(), principal, id, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(updated))
}

// UpdatePriority handles PATCH /api/tasks/{id}/priority.
func (h *TaskHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req TaskPriorityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.taskService.UpdatePriority(r.Context(), principal, id, domain.TaskPriority(req.Priority))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(updated))
}

// Assign handles PATCH /api/tasks/{id}/assign/{userId}.
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	assigneeID, err := getPathUUID(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	updated, err := h.taskService.Assign(r.Context(), principal, id, assigneeID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(updated))
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.Delete(r.Context(), principal, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondTaskPage(
	w http.ResponseWriter,
	r *http.Request,
	tasks []*domain.Task,
	total int,
	page store.Page,
) {
	items := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, NewTaskResponse(t))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PageResponse[TaskResponse]{
		Items:    items,
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	})
}
