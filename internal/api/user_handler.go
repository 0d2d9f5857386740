package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/access"
	"github.com/taskhive/taskhive-api/internal/service/user"
	"github.com/taskhive/taskhive-api/internal/store"
)

// UserService defines the account operations the user handler depends on.
type UserService interface {
	List(ctx context.Context, principal access.Principal, page store.Page) ([]*domain.User, int, error)
	Get(ctx context.Context, principal access.Principal, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, principal access.Principal, id uuid.UUID, params user.UpdateParams) (*domain.User, error)
	ChangeRole(ctx context.Context, principal access.Principal, id uuid.UUID, roleName domain.RoleName) (*domain.User, error)
	Delete(ctx context.Context, principal access.Principal, id uuid.UUID) error
}

// UserHandler handles user-related API requests. Authorization lives in
// the user service; the handler only decodes, validates and maps errors.
type UserHandler struct {
	userService UserService
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /api/users. Admin only.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	page := parsePage(r)

	users, total, err := h.userService.List(r.Context(), principal, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, NewUserResponse(u))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PageResponse[UserResponse]{
		Items:    items,
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	})
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	u, err := h.userService.Get(r.Context(), principal, principal.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(u))
}

// Get handles GET /api/users/{id}. A user may look up themselves;
// anyone else requires the ADMIN role.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	u, err := h.userService.Get(r.Context(), principal, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(u))
}

// Update handles PUT /api/users/{id}. The account owner may update their
// own profile; anyone else requires the ADMIN role.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UserUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.userService.Update(r.Context(), principal, id, user.UpdateParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(u))
}

// ChangeRole handles PATCH /api/users/{id}/role. Admin only.
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UserRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.userService.ChangeRole(r.Context(), principal, id, domain.RoleName(req.Role))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(u))
}

// Delete handles DELETE /api/users/{id}. The account owner may delete
// their own account; anyone else requires the ADMIN role.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := getPrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userService.Delete(r.Context(), principal, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
