package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/access"
	"github.com/taskhive/taskhive-api/internal/store"
)

// getPrincipal extracts the authenticated principal from the request
// context. When it is absent the auth middleware did not run or failed;
// a 401 is written and ok is false.
func getPrincipal(w http.ResponseWriter, r *http.Request) (access.Principal, bool) {
	principal, ok := shared.GetPrincipal(r.Context())
	if !ok || principal.ID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return access.Principal{}, false
	}
	return principal, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// decodeAndValidate parses the JSON body into v and validates it.
// On failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}
	return true
}

// parsePage reads page/page_size query parameters. Values out of range
// are normalized by the store layer rather than rejected.
func parsePage(r *http.Request) store.Page {
	page := store.Page{}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page.Number = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		page.Size = v
	}
	return page.Normalize()
}

// parseTaskFilter reads optional status/priority query parameters.
// Unknown values are rejected so typos do not silently match nothing.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	var filter store.TaskFilter

	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.TaskStatus(v)
		if !status.Valid() {
			return filter, domain.NewValidationError("status", "is not a known status", domain.ErrInvalidTaskStatus)
		}
		filter.Status = &status
	}
	if v := r.URL.Query().Get("priority"); v != "" {
		priority := domain.TaskPriority(v)
		if !priority.Valid() {
			return filter, domain.NewValidationError("priority", "is not a known priority", domain.ErrInvalidTaskPriority)
		}
		filter.Priority = &priority
	}
	return filter, nil
}

// parseOptionalUUID converts a DTO's optional UUID string field.
// Validation has already checked the format.
func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
