package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/obs"
	"github.com/taskhive/taskhive-api/internal/platform/postgres"
	"github.com/taskhive/taskhive-api/internal/platform/redisstore"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/service/comment"
	"github.com/taskhive/taskhive-api/internal/service/task"
	"github.com/taskhive/taskhive-api/internal/service/user"
	"github.com/taskhive/taskhive-api/internal/store"
)

// application holds the shared application dependencies to simplify
// wiring and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	// Stores
	userStore    store.UserStore
	roleStore    store.RoleStore
	taskStore    store.TaskStore
	commentStore store.CommentStore
	blacklist    store.TokenBlacklist

	// Services
	jwtService     auth.JWTService
	authService    *auth.AuthService
	taskService    *task.Service
	commentService *comment.Service
	userService    *user.Service
}

// newApplication creates an application instance with all dependencies
// initialized: database and Redis connections, migrations, stores and
// the service layer.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.db, err = setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(app.db, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app.redis, err = setupRedis(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up redis: %w", err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	app.userStore = postgres.NewPostgresUserStore(app.db, cfg.Auth.BCryptCost)
	app.roleStore = postgres.NewPostgresRoleStore(app.db)
	app.taskStore = postgres.NewPostgresTaskStore(app.db)
	app.commentStore = postgres.NewPostgresCommentStore(app.db)
	app.blacklist = redisstore.NewTokenBlacklist(app.redis, cfg.Redis.KeyPrefix)

	app.authService = auth.NewAuthService(
		app.userStore,
		app.roleStore,
		app.jwtService,
		auth.NewBcryptVerifier(),
		app.blacklist,
		cfg.Auth,
		logger,
	)
	app.taskService = task.NewService(app.taskStore, app.userStore, logger)
	app.commentService = comment.NewService(app.commentStore, app.taskStore, logger)
	app.userService = user.NewService(app.userStore, app.roleStore, logger)

	obs.Init()

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupRedis connects to the Redis instance backing the token blacklist
// and verifies the connection with a ping.
func setupRedis(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis connection established", "addr", cfg.Redis.Addr)
	return client, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
