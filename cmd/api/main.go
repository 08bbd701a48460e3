package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"todolist/internal/adapter/cache/memory"
	"todolist/internal/adapter/cache/redis"
	"todolist/internal/adapter/database/postgres"
	"todolist/internal/adapter/database/sqlite"
	api "todolist/internal/adapter/http"
	"todolist/internal/adapter/telemetry"
	"todolist/internal/core/port"
	"todolist/pkg/auth"
	"todolist/pkg/config"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load("")

	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log)

	if err != nil {
		return err
	}

	defer logger.Sync()

	if cfg.UsesDevelopmentSecret() {
		logger.Warn("JWT_SECRET is not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.App.Env,
		MetricsPort:    cfg.Telemetry.MetricsPort,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	}, logger)

	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	probe := tel.NewTelemetryProbe(logger)
	queryLogger := config.NewQueryLogger(cfg.Log)

	var repos api.Repositories

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, postgres.Config{
			URL:        cfg.Database.URL,
			MaxConns:   int32(cfg.Database.MaxOpenConns),
			LogQueries: cfg.Database.LogQueries,
		}, queryLogger)

		if err != nil {
			return err
		}

		defer db.Close()

		repos = api.NewPostgresRepositories(db, probe)
	default:
		db, err := sqlite.NewDB(sqlite.Config{
			Path:         cfg.Database.Path,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			LogQueries:   cfg.Database.LogQueries,
		}, queryLogger)

		if err != nil {
			return err
		}

		defer db.Close()

		repos = api.NewSQLiteRepositories(db, probe)
	}

	logger.Info("Database ready", zap.String("driver", cfg.Database.Driver))

	denylist, err := newDenylist(ctx, cfg, logger)

	if err != nil {
		return err
	}

	container := api.NewContainer(api.Dependencies{
		Repositories:  repos,
		Tokens:        auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL),
		Denylist:      denylist,
		Telemetry:     probe,
		Metrics:       tel.AppMetrics,
		Logger:        logger,
		Config:        cfg.AppConfig(),
		PasswordCost:  cfg.Auth.PasswordCost,
		SweepInterval: cfg.Trash.SweepInterval,
	})

	tel.AppMetrics.StartSystemMetrics(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return api.StartServer(gctx, cfg, container, tel.AppMetrics, logger)
	})

	g.Go(func() error {
		return tel.ServeMetrics(gctx, logger)
	})

	g.Go(func() error {
		return container.Sweeper.Run(gctx)
	})

	err = g.Wait()

	logger.Info("Shut down", zap.Error(err))

	return err
}

func newDenylist(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (port.TokenDenylist, error) {
	if cfg.Redis.URL == "" {
		return memory.NewTokenDenylist(), nil
	}

	client, err := redis.NewClient(ctx, cfg.Redis.URL)

	if err != nil {
		return nil, err
	}

	logger.Info("Token denylist backed by Redis")

	return redis.NewTokenDenylist(client), nil
}
