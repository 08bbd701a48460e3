package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"todolist/internal/adapter/http/routes"
	"todolist/internal/core/telemetry"
	"todolist/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// StartServer serves the API until ctx is cancelled and then drains in-flight
// requests within the configured shutdown timeout.
func StartServer(ctx context.Context, cfg *config.Config, container *Container, metrics *telemetry.AppMetrics, logger *otelzap.Logger) error {
	return StartServerWithConfig(ctx, cfg, cfg.AppConfig(), container, metrics, logger)
}

func StartServerWithConfig(ctx context.Context, cfg *config.Config, appConfig *config.AppConfig, container *Container, metrics *telemetry.AppMetrics, logger *otelzap.Logger) error {
	if appConfig.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.SetupRouterWithConfig(container.Handlers(), metrics, logger, appConfig)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	logger.Info("Server starting",
		zap.String("address", srv.Addr),
		zap.String("environment", appConfig.Environment),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("rate_limit_enabled", appConfig.RateLimitEnabled),
		zap.Bool("https_enforced", appConfig.EnforceHTTPS))

	return Serve(ctx, srv, cfg.HTTP.ShutdownTimeout, logger)
}

// Serve runs srv until ctx is done. It is shared by the API and metrics servers.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *otelzap.Logger) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	logger.Info("Server shutting down", zap.String("address", srv.Addr))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
