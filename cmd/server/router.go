package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskhive/taskhive-api/internal/api"
	apiMiddleware "github.com/taskhive/taskhive-api/internal/api/middleware"
	"github.com/taskhive/taskhive-api/internal/obs"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(obs.Instrument)

	authHandler := api.NewAuthHandler(app.authService, app.config.Auth.BearerPrefix)
	taskHandler := api.NewTaskHandler(app.taskService)
	commentHandler := api.NewCommentHandler(app.commentService)
	userHandler := api.NewUserHandler(app.userService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(
		app.jwtService,
		app.blacklist,
		app.config.Auth.BearerPrefix,
	)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)

			// Task endpoints
			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/my", taskHandler.ListMine)
			r.Get("/tasks/assigned", taskHandler.ListAssigned)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)
			r.Patch("/tasks/{id}/status", taskHandler.UpdateStatus)
			r.Patch("/tasks/{id}/priority", taskHandler.UpdatePriority)
			r.Patch("/tasks/{id}/assign/{userId}", taskHandler.Assign)

			// Comment endpoints
			r.Get("/tasks/{id}/comments", commentHandler.ListByTask)
			r.Post("/tasks/{id}/comments", commentHandler.Create)
			r.Get("/comments/{id}", commentHandler.Get)
			r.Put("/comments/{id}", commentHandler.Update)
			r.Delete("/comments/{id}", commentHandler.Delete)

			// User endpoints
			r.Get("/users", userHandler.List)
			r.Get("/users/me", userHandler.Me)
			r.Get("/users/{id}", userHandler.Get)
			r.Put("/users/{id}", userHandler.Update)
			r.Delete("/users/{id}", userHandler.Delete)
			r.Patch("/users/{id}/role", userHandler.ChangeRole)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Prometheus metrics
	r.Handle("/metrics", obs.Handler())

	return r
}
