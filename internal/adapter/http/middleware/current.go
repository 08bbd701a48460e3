package middleware

import (
	"todolist/pkg"
	ct "todolist/pkg/context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	currentKey = "current"
)

func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := ct.NewCurrent()

		requestID := c.GetHeader(RequestIDHeader)

		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}

		current.Set(ct.KeyRequestID, requestID)
		current.Set(ct.KeyUserAgent, c.Request.UserAgent())
		current.Set(ct.KeyClientIP, pkg.GetClientIP(c))

		c.Header(RequestIDHeader, requestID)

		ctx := ct.WithCurrent(c.Request.Context(), current)
		c.Request = c.Request.WithContext(ctx)

		c.Set(currentKey, current)

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if current, ok := c.Get(currentKey); ok {
		if curr, ok := current.(*ct.Current); ok {
			return curr
		}
	}

	return ct.GetCurrent(c.Request.Context())
}
