// Package di wires the application graph. wire_gen.go is generated from
// wire.go; regenerate with `wire ./internal/di` after changing providers.
package di

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-todo-rbac-service/internal/app"
	"go-todo-rbac-service/internal/config"
	"go-todo-rbac-service/internal/database"
	"go-todo-rbac-service/internal/http/handler"
	"go-todo-rbac-service/internal/http/middleware"
	"go-todo-rbac-service/internal/http/router"
	"go-todo-rbac-service/internal/kvstore"
	"go-todo-rbac-service/internal/observability"
	"go-todo-rbac-service/internal/repository"
	"go-todo-rbac-service/internal/security"
	"go-todo-rbac-service/internal/service"
	"go-todo-rbac-service/internal/session"
	"go-todo-rbac-service/internal/storage"
)

const bootstrapAdminEmail = "admin@test.com"

func provideLogger(cfg *config.Config) *slog.Logger {
	logger := observability.NewLogger(cfg.Env, cfg.LogLevel)
	// Audit emission writes through slog.Default; keep it on the same
	// JSON/trace-context handler as everything else.
	slog.SetDefault(logger)
	return logger
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRedisClient(cfg *config.Config) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
		DB:   cfg.RedisDB,
	})
}

func provideTokenCodec(cfg *config.Config) (*security.TokenCodec, error) {
	return security.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
}

func provideLifetimes(cfg *config.Config) session.Lifetimes {
	return session.Lifetimes{
		Access:  cfg.AccessTokenTTL(),
		Refresh: cfg.RefreshTokenTTL(),
	}
}

func provideUserDirectory(users repository.UserRepository) service.UserDirectory {
	return users
}

func provideAvatarStore(store *storage.ObjectStore) service.AvatarStore {
	return store
}

func provideWelcomeNotifier(notifier *service.LogWelcomeNotifier) service.WelcomeNotifier {
	return notifier
}

func provideRouterDependencies(
	cfg *config.Config,
	logger *slog.Logger,
	auth *middleware.Authenticator,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	todoHandler *handler.TodoHandler,
	roleHandler *handler.RoleHandler,
	healthHandler *handler.HealthHandler,
) router.Dependencies {
	return router.Dependencies{
		Logger:        logger,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		Auth:          auth,
		AuthHandler:   authHandler,
		UserHandler:   userHandler,
		TodoHandler:   todoHandler,
		RoleHandler:   roleHandler,
		HealthHandler: healthHandler,
	}
}

func provideHealthHandler(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) *handler.HealthHandler {
	return handler.NewHealthHandler(db, redisClient, cfg.AppName, cfg.AppVersion)
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func provideHTTPHandler(dep router.Dependencies) http.Handler {
	return router.New(dep)
}

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(provideLogger)

var RuntimeInfraSet = wire.NewSet(
	provideOpenDB,
	provideRedisClient,
	kvstore.New,
	storage.NewObjectStore,
)

var SecuritySet = wire.NewSet(
	provideTokenCodec,
	provideLifetimes,
	session.NewDirectory,
	session.NewValidator,
	session.NewPairer,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewRoleRepository,
	repository.NewTodoRepository,
	provideUserDirectory,
)

var ServiceSet = wire.NewSet(
	provideAvatarStore,
	service.NewLogWelcomeNotifier,
	provideWelcomeNotifier,
	service.NewAuthService,
	service.NewUserService,
	service.NewTodoService,
	service.NewRoleService,
)

var HTTPSet = wire.NewSet(
	middleware.NewAuthenticator,
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewTodoHandler,
	handler.NewRoleHandler,
	provideHealthHandler,
	provideRouterDependencies,
	provideHTTPHandler,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

// MigrationRunner migrates the schema and seeds the role catalogue plus the
// bootstrap admin.
type MigrationRunner struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewMigrationRunner(db *gorm.DB, logger *slog.Logger) *MigrationRunner {
	return &MigrationRunner{db: db, logger: logger}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	report, err := database.SeedSync(m.db, bootstrapAdminEmail)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	m.logger.Info("migration complete",
		"noop", report.Noop,
		"roles_created", report.CreatedRoles,
		"permissions_created", report.CreatedPermissions,
		"users_created", report.CreatedUsers,
	)
	return nil
}

// RunMigrationOnly is the entry point for the migrate subcommand.
func RunMigrationOnly() error {
	runner, err := InitializeMigrationRunner()
	if err != nil {
		return err
	}
	return runner.Run()
}
