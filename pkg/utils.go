package pkg

import (
	"github.com/gin-gonic/gin"
)

// GetClientIP keys per-client state. Forwarded headers are only honoured for
// the proxies the engine trusts, so clients cannot pick their own key.
func GetClientIP(c *gin.Context) string {
	ip := c.ClientIP()

	if ip == "" {
		return "unknown"
	}

	return ip
}
