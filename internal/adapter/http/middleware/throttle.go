package middleware

import (
	"todolist/internal/adapter/http/helper"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Throttle caps the process-wide request rate regardless of client.
func Throttle(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := rate.NewLimiter(rate.Limit(rps), max(1, burst))

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			helper.SendTooManyRequests(c, MessageTooManyRequests, 1)
			return
		}

		c.Next()
	}
}
