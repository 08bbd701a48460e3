package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"todolist/pkg/auth"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EnvProduction  = "production"
	EnvDevelopment = "development"

	// only accepted outside production
	developmentSecret = "dev-secret-change-me"
)

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type HTTP struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	ClientURL       string        `mapstructure:"client_url"`
	EnforceHTTPS    bool          `mapstructure:"enforce_https"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
}

type Database struct {
	Driver       string `mapstructure:"driver"`
	URL          string `mapstructure:"url"`
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogQueries   bool   `mapstructure:"log_queries"`
}

type JWT struct {
	Secret    string        `mapstructure:"secret"`
	ExpiresIn string        `mapstructure:"expires_in"`
	TTL       time.Duration `mapstructure:"-"`
}

type Auth struct {
	PasswordCost int `mapstructure:"password_cost"`
}

type Redis struct {
	URL string `mapstructure:"url"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Telemetry struct {
	ServiceName  string  `mapstructure:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	MetricsPort  int     `mapstructure:"metrics_port"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

type RateLimit struct {
	Enabled         bool          `mapstructure:"enabled"`
	AuthRequests    int           `mapstructure:"auth_requests"`
	AuthWindow      time.Duration `mapstructure:"auth_window"`
	GeneralRequests int           `mapstructure:"general_requests"`
	GeneralWindow   time.Duration `mapstructure:"general_window"`
	ThrottleRPS     float64       `mapstructure:"throttle_rps"`
	ThrottleBurst   int           `mapstructure:"throttle_burst"`
}

type Trash struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type Config struct {
	App       App       `mapstructure:"app"`
	HTTP      HTTP      `mapstructure:"http"`
	Database  Database  `mapstructure:"database"`
	JWT       JWT       `mapstructure:"jwt"`
	Auth      Auth      `mapstructure:"auth"`
	Redis     Redis     `mapstructure:"redis"`
	Log       Log       `mapstructure:"log"`
	Telemetry Telemetry `mapstructure:"telemetry"`
	RateLimit RateLimit `mapstructure:"rate_limit"`
	Trash     Trash     `mapstructure:"trash"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "todolist")
	v.SetDefault("app.env", EnvDevelopment)

	v.SetDefault("http.port", 3000)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.request_timeout", 10*time.Second)
	v.SetDefault("http.max_body_bytes", 1<<20)
	v.SetDefault("http.client_url", "http://localhost:5173")
	v.SetDefault("http.enforce_https", false)

	v.SetDefault("database.path", "todos.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.log_queries", false)

	v.SetDefault("jwt.expires_in", "7d")
	v.SetDefault("auth.password_cost", 12)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)

	v.SetDefault("telemetry.service_name", "todolist")
	v.SetDefault("telemetry.metrics_port", 9090)
	v.SetDefault("telemetry.sample_ratio", 1.0)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.auth_requests", 5)
	v.SetDefault("rate_limit.auth_window", 15*time.Minute)
	v.SetDefault("rate_limit.general_requests", 100)
	v.SetDefault("rate_limit.general_window", 15*time.Minute)
	v.SetDefault("rate_limit.throttle_rps", 50)
	v.SetDefault("rate_limit.throttle_burst", 100)

	v.SetDefault("trash.sweep_interval", time.Hour)
}

// legacy variable names the deployment scripts already export
var envBindings = map[string][]string{
	"app.env":                     {"APP_ENV", "NODE_ENV"},
	"http.port":                   {"APP_HTTP_PORT", "PORT"},
	"http.client_url":             {"APP_HTTP_CLIENT_URL", "CLIENT_URL"},
	"http.enforce_https":          {"APP_HTTP_ENFORCE_HTTPS", "ENFORCE_HTTPS"},
	"database.driver":             {"APP_DATABASE_DRIVER", "DATABASE_DRIVER"},
	"database.url":                {"APP_DATABASE_URL", "DATABASE_URL"},
	"database.path":               {"APP_DATABASE_PATH", "DATABASE_PATH"},
	"jwt.secret":                  {"APP_JWT_SECRET", "JWT_SECRET"},
	"jwt.expires_in":              {"APP_JWT_EXPIRES_IN", "JWT_EXPIRES_IN"},
	"redis.url":                   {"APP_REDIS_URL", "REDIS_URL"},
	"telemetry.otlp_endpoint":     {"APP_TELEMETRY_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"},
	"telemetry.metrics_port":      {"APP_TELEMETRY_METRICS_PORT", "METRICS_PORT"},
	"log.level":                   {"APP_LOG_LEVEL", "LOG_LEVEL"},
	"trash.sweep_interval":        {"APP_TRASH_SWEEP_INTERVAL", "TRASH_SWEEP_INTERVAL"},
	"rate_limit.enabled":          {"APP_RATE_LIMIT_ENABLED", "RATE_LIMIT_ENABLED"},
	"database.log_queries":        {"APP_DATABASE_LOG_QUERIES", "LOG_QUERIES"},
	"telemetry.service_name":      {"APP_TELEMETRY_SERVICE_NAME", "OTEL_SERVICE_NAME"},
	"http.request_timeout":        {"APP_HTTP_REQUEST_TIMEOUT", "REQUEST_TIMEOUT"},
	"rate_limit.general_requests": {"APP_RATE_LIMIT_GENERAL_REQUESTS"},
	"rate_limit.auth_requests":    {"APP_RATE_LIMIT_AUTH_REQUESTS"},
}

// Load reads .env, the optional YAML file at path (or CONFIG_PATH) and the
// environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.finalize(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) finalize() error {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))

	ttl, err := auth.ParseTTL(c.JWT.ExpiresIn)

	if err != nil {
		return err
	}

	c.JWT.TTL = ttl

	if c.JWT.Secret == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET must be set in production")
		}

		c.JWT.Secret = developmentSecret
	}

	switch strings.ToLower(c.Database.Driver) {
	case "":
		c.Database.Driver = DriverSQLite

		if c.Database.URL != "" {
			c.Database.Driver = DriverPostgres
		}
	case "postgres", "postgresql", "pg":
		c.Database.Driver = DriverPostgres
	case "sqlite", "sqlite3":
		c.Database.Driver = DriverSQLite
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}

	if c.Database.MaxOpenConns < 0 || c.Database.MaxOpenConns > math.MaxInt32 {
		return fmt.Errorf("config: database.max_open_conns must be between 0 and %d", math.MaxInt32)
	}

	if c.Database.Driver == DriverPostgres && c.Database.URL == "" {
		return errors.New("config: DATABASE_URL is required for the postgres driver")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// UsesDevelopmentSecret reports whether no JWT secret was configured.
func (c *Config) UsesDevelopmentSecret() bool {
	return c.JWT.Secret == developmentSecret
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
