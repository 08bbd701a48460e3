package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type HTTPSEnforcer struct {
	enabled bool
	logger  *otelzap.Logger
}

func NewHTTPSEnforcer(enabled bool, logger *otelzap.Logger) *HTTPSEnforcer {
	return &HTTPSEnforcer{
		enabled: enabled,
		logger:  logger,
	}
}

func (he *HTTPSEnforcer) HTTPSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !he.enabled || c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Next()
			return
		}

		host := c.Request.Host

		if isLocalHost(host) {
			c.Next()
			return
		}

		httpsURL := "https://" + host + c.Request.URL.RequestURI()

		he.logger.Ctx(c.Request.Context()).Info("Redirecting to HTTPS",
			zap.String("original_url", c.Request.URL.String()),
			zap.String("https_url", httpsURL))

		// 308 keeps the method and body of API writes
		c.Redirect(http.StatusPermanentRedirect, httpsURL)
		c.Abort()
	}
}

func (he *HTTPSEnforcer) IsEnabled() bool {
	return he.enabled
}

func isLocalHost(host string) bool {
	hostname := host

	if i := strings.LastIndex(host, ":"); i != -1 && !strings.HasSuffix(host, "]") {
		hostname = host[:i]
	}

	return hostname == "localhost" || hostname == "127.0.0.1" || hostname == "[::1]"
}
