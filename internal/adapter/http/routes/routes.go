package routes

import (
	"net/http"
	"time"

	"todolist/internal/adapter/http/handler"
	"todolist/internal/adapter/http/helper"
	"todolist/internal/adapter/http/middleware"
	"todolist/internal/core/telemetry"
	"todolist/pkg/config"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type HandlersConfig struct {
	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	TrashHandler  *handler.TrashHandler
	HealthHandler *handler.HealthHandler
	Authenticator *middleware.Authenticator
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *otelzap.Logger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, config.GetDefaultConfig())
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *otelzap.Logger, cfg *config.AppConfig) *gin.Engine {
	router := gin.New()

	// nil trusts no proxy, so ClientIP is the socket address
	_ = router.SetTrustedProxies(cfg.TrustedProxies)

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(ginzap.RecoveryWithZap(logger.Logger, true))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.NewHTTPSEnforcer(cfg.EnforceHTTPS, logger).HTTPSMiddleware())
	router.Use(middleware.SecurityHeaders(cfg.EnforceHTTPS))
	router.Use(corsMiddleware(cfg.ClientURL))
	router.Use(middleware.MaxBodyBytes(cfg.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.RequestTimeout))
	router.Use(middleware.Throttle(cfg.ThrottleRPS, cfg.ThrottleBurst))

	router.NoRoute(func(c *gin.Context) {
		helper.SendNotFoundError(c, "Route not found")
	})

	limits := newRateLimits(cfg, metrics, logger)

	api := router.Group("/api")

	if handlers.HealthHandler != nil {
		api.GET("/health", handlers.HealthHandler.Health)
	}

	if handlers.AuthHandler != nil {
		setupAuthRoutes(api, handlers, limits)
	}

	if handlers.TaskHandler != nil {
		setupTaskRoutes(api, handlers, limits)
	}

	if handlers.TrashHandler != nil {
		setupTrashRoutes(api, handlers, limits)
	}

	return router
}

func setupAuthRoutes(api *gin.RouterGroup, handlers HandlersConfig, limits rateLimits) {
	auth := api.Group("/auth", limits.auth)
	{
		auth.POST("/register", handlers.AuthHandler.Register)
		auth.POST("/login", handlers.AuthHandler.Login)
		auth.POST("/logout", handlers.AuthHandler.Logout)
		auth.GET("/me", handlers.Authenticator.RequireAuth(), handlers.AuthHandler.Me)
		auth.GET("/session", handlers.Authenticator.OptionalAuth(), handlers.AuthHandler.Session)
	}
}

func setupTaskRoutes(api *gin.RouterGroup, handlers HandlersConfig, limits rateLimits) {
	tasks := api.Group("/tasks", limits.general, handlers.Authenticator.RequireAuth())
	{
		tasks.GET("", handlers.TaskHandler.ListTasks)
		tasks.POST("", handlers.TaskHandler.CreateTask)
		tasks.PUT("/:id", handlers.TaskHandler.UpdateTask)
		tasks.DELETE("/completed", handlers.TaskHandler.DeleteCompleted)
		tasks.DELETE("/:id", handlers.TaskHandler.DeleteTask)
	}
}

func setupTrashRoutes(api *gin.RouterGroup, handlers HandlersConfig, limits rateLimits) {
	trash := api.Group("/trash", limits.general, handlers.Authenticator.RequireAuth())
	{
		trash.GET("", handlers.TrashHandler.ListTrash)
		trash.POST("/:id/restore", handlers.TrashHandler.Restore)
		trash.DELETE("/:id", handlers.TrashHandler.PermanentlyDelete)
		trash.DELETE("", handlers.TrashHandler.EmptyTrash)
	}
}

type rateLimits struct {
	auth    gin.HandlerFunc
	general gin.HandlerFunc
}

func newRateLimits(cfg *config.AppConfig, metrics *telemetry.AppMetrics, logger *otelzap.Logger) rateLimits {
	if !cfg.RateLimitEnabled {
		next := func(c *gin.Context) { c.Next() }
		return rateLimits{auth: next, general: next}
	}

	limiter := middleware.NewRateLimiter(logger, metrics)

	authRule := cfg.RateLimitConfigs[config.RateLimitAuth]
	generalRule := cfg.RateLimitConfigs[config.RateLimitGeneral]

	return rateLimits{
		auth: limiter.Limit(config.RateLimitAuth, middleware.RateLimitRule{
			Requests:       authRule.Requests,
			Window:         authRule.Window,
			SkipSuccessful: true,
			Message:        middleware.MessageTooManyAttempts,
		}),
		general: limiter.Limit(config.RateLimitGeneral, middleware.RateLimitRule{
			Requests: generalRule.Requests,
			Window:   generalRule.Window,
			Message:  middleware.MessageTooManyRequests,
		}),
	}
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	if clientURL == "" {
		clientURL = config.GetDefaultConfig().ClientURL
	}

	return cors.New(cors.Config{
		AllowOrigins:     []string{clientURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
