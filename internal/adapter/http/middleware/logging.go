package middleware

import (
	"time"

	ct "todolist/pkg/context"
	"todolist/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func LoggingMiddleware(logger *otelzap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		ctx := c.Request.Context()
		current := GetCurrent(c)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", ct.RequestID(ctx)),
		}

		if userID, ok := current.GetInt64(ct.KeyUserID); ok {
			fields = append(fields, zap.Int64("user_id", userID))
		}

		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Ctx(ctx).Error("HTTP Request", fields...)
		case status >= 400:
			logger.Ctx(ctx).Warn("HTTP Request", fields...)
		default:
			logger.Ctx(ctx).Info("HTTP Request", fields...)
		}
	}
}
