package context

import (
	"context"
	"sync"
)

const (
	KeyRequestID = "request_id"
	KeyUserID    = "user_id"
	KeyUsername  = "username"
	KeyTokenID   = "token_id"
	KeyClientIP  = "ip_address"
	KeyUserAgent = "user_agent"
)

// Current is the request-scoped bag of values shared by middleware, handlers
// and loggers. It travels in the request context, never in globals.
type Current struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewCurrent() *Current {
	return &Current{
		data: make(map[string]any),
	}
}

func (c *Current) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *Current) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[key]
}

func (c *Current) GetString(key string) (string, bool) {
	value, ok := c.Get(key).(string)
	return value, ok
}

func (c *Current) GetInt64(key string) (int64, bool) {
	value, ok := c.Get(key).(int64)
	return value, ok
}

func (c *Current) Exists(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.data[key]
	return exists
}

func (c *Current) All() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]any, len(c.data))
	for k, v := range c.data {
		result[k] = v
	}
	return result
}

type contextKey string

const currentKey contextKey = "current"

func WithCurrent(ctx context.Context, current *Current) context.Context {
	return context.WithValue(ctx, currentKey, current)
}

func FromContext(ctx context.Context) (*Current, bool) {
	current, ok := ctx.Value(currentKey).(*Current)
	return current, ok
}

func GetCurrent(ctx context.Context) *Current {
	if current, ok := FromContext(ctx); ok {
		return current
	}

	return NewCurrent()
}

func RequestID(ctx context.Context) string {
	if current, ok := FromContext(ctx); ok {
		id, _ := current.GetString(KeyRequestID)
		return id
	}

	return ""
}

func UserID(ctx context.Context) (int64, bool) {
	if current, ok := FromContext(ctx); ok {
		return current.GetInt64(KeyUserID)
	}

	return 0, false
}
