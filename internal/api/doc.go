// Package api contains the HTTP handlers for the task-tracking API:
// authentication, tasks, comments and users. Handlers decode and
// validate DTOs, call the corresponding service with the principal
// taken from the request context, and translate service errors into
// sanitized HTTP responses.
package api
