package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"todolist/internal/adapter/http/helper"
	"todolist/internal/core/telemetry"
	"todolist/pkg"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	MessageTooManyAttempts = "Too many attempts, please try again later"
	MessageTooManyRequests = "Too many requests, please try again later"
)

type RateLimitRule struct {
	Requests int
	Window   time.Duration

	// SkipSuccessful only counts responses with a status of 400 or above,
	// so that users who log in correctly never lock themselves out.
	SkipSuccessful bool

	Message string
	KeyFunc func(*gin.Context) string
}

type RateLimiter struct {
	cache   *cache.Cache
	logger  *otelzap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
	now     func() time.Time
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(logger *otelzap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Limit returns a middleware sharing one budget per client across every route
// it is mounted on.
func (rl *RateLimiter) Limit(group string, rule RateLimitRule) gin.HandlerFunc {
	if rule.KeyFunc == nil {
		rule.KeyFunc = pkg.GetClientIP
	}

	if rule.Message == "" {
		rule.Message = MessageTooManyRequests
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", group, rule.KeyFunc(c))
		ctx := c.Request.Context()

		allowed, remaining, resetTime := rl.take(key, rule, !rule.SkipSuccessful)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			rl.metrics.RecordRateLimitHit(ctx, group, "ip")

			rl.logger.Ctx(ctx).Warn("Rate limit exceeded",
				zap.String("group", group),
				zap.String("key", key),
				zap.Int("limit", rule.Requests),
				zap.Duration("window", rule.Window))

			retryAfter := max(1, int(resetTime.Sub(rl.now()).Seconds()))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			helper.SendTooManyRequests(c, rule.Message, retryAfter)
			return
		}

		rl.metrics.RecordRateLimitAllowed(ctx, group, "ip")

		c.Next()

		if rule.SkipSuccessful && c.Writer.Status() >= http.StatusBadRequest {
			rl.take(key, rule, true)
		}
	}
}

// take reports whether the key still has budget, consuming one unit when asked.
func (rl *RateLimiter) take(key string, rule RateLimitRule, consume bool) (bool, int, time.Time) {
	now := rl.now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	entry := RateLimitEntry{ResetTime: now.Add(rule.Window)}

	if cached, found := rl.cache.Get(key); found {
		if existing := cached.(RateLimitEntry); now.Before(existing.ResetTime) {
			entry = existing
		}
	}

	if entry.Count >= rule.Requests {
		return false, 0, entry.ResetTime
	}

	if consume {
		entry.Count++
		rl.cache.Set(key, entry, entry.ResetTime.Sub(now))
	}

	return true, rule.Requests - entry.Count, entry.ResetTime
}

func (rl *RateLimiter) ActiveEntries() int {
	return rl.cache.ItemCount()
}
