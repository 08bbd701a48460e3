package middleware

import (
	"context"
	"errors"
	"time"

	"todolist/internal/adapter/http/helper"

	"github.com/gin-gonic/gin"
)

// Timeout bounds the request context. Storage calls observe the deadline and
// the handler's fault is turned into a 503 when it was the deadline that fired.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !c.Writer.Written() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			helper.SendTimeoutError(c)
		}
	}
}
