package config

import (
	"time"
)

const (
	RateLimitAuth    = "auth"
	RateLimitGeneral = "general"
)

// AppConfig is the slice of the configuration the HTTP layer needs.
type AppConfig struct {
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	ThrottleRPS   float64
	ThrottleBurst int

	EnforceHTTPS bool
	SecureCookie bool

	ClientURL      string
	RequestTimeout time.Duration
	MaxBodyBytes   int64

	Environment    string
	ServiceName    string
	TrustedProxies []string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			RateLimitAuth: {
				Requests: 5,
				Window:   15 * time.Minute,
			},
			RateLimitGeneral: {
				Requests: 100,
				Window:   15 * time.Minute,
			},
		},
		ThrottleRPS:    50,
		ThrottleBurst:  100,
		EnforceHTTPS:   false,
		SecureCookie:   false,
		ClientURL:      "http://localhost:5173",
		RequestTimeout: 10 * time.Second,
		MaxBodyBytes:   1 << 20,
		Environment:    EnvDevelopment,
		ServiceName:    "todolist",
	}
}

func (c *Config) AppConfig() *AppConfig {
	return &AppConfig{
		RateLimitEnabled: c.RateLimit.Enabled,
		RateLimitConfigs: map[string]RateLimitConfig{
			RateLimitAuth: {
				Requests: c.RateLimit.AuthRequests,
				Window:   c.RateLimit.AuthWindow,
			},
			RateLimitGeneral: {
				Requests: c.RateLimit.GeneralRequests,
				Window:   c.RateLimit.GeneralWindow,
			},
		},
		ThrottleRPS:    c.RateLimit.ThrottleRPS,
		ThrottleBurst:  c.RateLimit.ThrottleBurst,
		EnforceHTTPS:   c.HTTP.EnforceHTTPS || c.IsProduction(),
		SecureCookie:   c.IsProduction(),
		ClientURL:      c.HTTP.ClientURL,
		RequestTimeout: c.HTTP.RequestTimeout,
		MaxBodyBytes:   c.HTTP.MaxBodyBytes,
		Environment:    c.App.Env,
		ServiceName:    c.Telemetry.ServiceName,
		TrustedProxies: c.HTTP.TrustedProxies,
	}
}
