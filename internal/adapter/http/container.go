package http

import (
	"time"

	"todolist/internal/adapter/database/postgres"
	pgrepository "todolist/internal/adapter/database/postgres/repository"
	"todolist/internal/adapter/database/sqlite"
	"todolist/internal/adapter/database/sqlite/repository"
	"todolist/internal/adapter/http/handler"
	"todolist/internal/adapter/http/middleware"
	"todolist/internal/adapter/http/routes"
	"todolist/internal/core/port"
	"todolist/internal/core/service"
	"todolist/internal/core/telemetry"
	"todolist/pkg/config"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type Repositories struct {
	Users port.UserRepository
	Tasks port.TaskRepository
	Trash port.TrashRepository
}

func NewSQLiteRepositories(db *sqlite.DB, probe port.Telemetry) Repositories {
	return Repositories{
		Users: repository.NewUserRepository(db, probe),
		Tasks: repository.NewTaskRepository(db, probe),
		Trash: repository.NewTrashRepository(db, probe),
	}
}

func NewPostgresRepositories(db *postgres.DB, probe port.Telemetry) Repositories {
	return Repositories{
		Users: pgrepository.NewUserRepository(db, probe),
		Tasks: pgrepository.NewTaskRepository(db, probe),
		Trash: pgrepository.NewTrashRepository(db, probe),
	}
}

type Dependencies struct {
	Repositories Repositories
	Tokens       port.TokenManager
	Denylist     port.TokenDenylist

	Telemetry port.Telemetry
	Metrics   *telemetry.AppMetrics
	Logger    *otelzap.Logger
	Config    *config.AppConfig

	PasswordCost  int
	SweepInterval time.Duration

	// Clock defaults to service.SystemClock.
	Clock service.Clock
}

type Container struct {
	Repositories

	AuthService  port.AuthService
	TaskService  port.TaskService
	TrashService port.TrashService

	Authenticator *middleware.Authenticator
	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	TrashHandler  *handler.TrashHandler
	HealthHandler *handler.HealthHandler

	Sweeper *service.TrashSweeper
}

func NewContainer(deps Dependencies) *Container {
	if deps.Logger == nil {
		deps.Logger = otelzap.New(zap.NewNop())
	}

	if deps.Config == nil {
		deps.Config = config.GetDefaultConfig()
	}

	if deps.Telemetry == nil {
		deps.Telemetry = telemetry.NewNoOpProbe()
	}

	if deps.Clock == nil {
		deps.Clock = service.SystemClock
	}

	opts := []service.Option{
		service.WithTelemetry(deps.Telemetry),
		service.WithClock(deps.Clock),
	}

	if deps.PasswordCost > 0 {
		opts = append(opts, service.WithPasswordCost(deps.PasswordCost))
	}

	authSvc := service.NewAuthService(deps.Repositories.Users, opts...)
	taskSvc := service.NewTaskService(deps.Repositories.Tasks, opts...)
	trashSvc := service.NewTrashService(deps.Repositories.Trash, opts...)

	return &Container{
		Repositories: deps.Repositories,

		AuthService:  authSvc,
		TaskService:  taskSvc,
		TrashService: trashSvc,

		Authenticator: middleware.NewAuthenticator(deps.Tokens, authSvc, deps.Denylist, deps.Logger),
		AuthHandler:   handler.NewAuthHandler(authSvc, deps.Tokens, deps.Denylist, deps.Logger, deps.Metrics, deps.Config.SecureCookie),
		TaskHandler:   handler.NewTaskHandler(taskSvc, deps.Logger, deps.Metrics),
		TrashHandler:  handler.NewTrashHandler(trashSvc, deps.Logger, deps.Metrics),
		HealthHandler: handler.NewHealthHandler(deps.Clock),

		Sweeper: service.NewTrashSweeper(trashSvc, deps.SweepInterval, deps.Logger, deps.Metrics),
	}
}

func (c *Container) Handlers() routes.HandlersConfig {
	return routes.HandlersConfig{
		AuthHandler:   c.AuthHandler,
		TaskHandler:   c.TaskHandler,
		TrashHandler:  c.TrashHandler,
		HealthHandler: c.HealthHandler,
		Authenticator: c.Authenticator,
	}
}
