package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/article-service/internal/auth"
)

const (
	devJWTSecret = "dev-secret"
	devPepper    = "dev-pepper"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters. It is read once at startup and
// never modified afterwards.
type AuthConfig struct {
	JWTSecret             string
	PasswordPepper        string
	AccessTokenTTLMinutes int
	Argon2Iterations      uint32
	Argon2MemoryKiB       uint32
	Argon2Parallelism     uint8
	HashWorkers           int
	LoginMaxAttempts      int
	LoginWindowSeconds    int
	BootstrapAdmin        BootstrapAdminConfig
}

// BootstrapAdminConfig describes an optional admin account seeded at startup.
type BootstrapAdminConfig struct {
	Email    string
	Name     string
	Password string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
	QueueSize  int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	maxConns := int32(env.int("POSTGRES_MAX_CONNS", 10))
	minConns := int32(env.int("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(env.int("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(env.int("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "article-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: env.int("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       env.int("REDIS_DB", 0),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", devJWTSecret),
			PasswordPepper:        getEnv("AUTH_PASSWORD_PEPPER", devPepper),
			AccessTokenTTLMinutes: env.int("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			Argon2Iterations:      uint32(env.uint("AUTH_ARGON2_ITERATIONS", 3, 32)),
			Argon2MemoryKiB:       uint32(env.uint("AUTH_ARGON2_MEMORY_KIB", 64*1024, 32)),
			Argon2Parallelism:     uint8(env.uint("AUTH_ARGON2_PARALLELISM", 2, 8)),
			HashWorkers:           env.int("AUTH_HASH_WORKERS", runtime.NumCPU()),
			LoginMaxAttempts:      env.int("AUTH_LOGIN_MAX_ATTEMPTS", 5),
			LoginWindowSeconds:    env.int("AUTH_LOGIN_WINDOW_SECONDS", 300),
			BootstrapAdmin: BootstrapAdminConfig{
				Email:    os.Getenv("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
				Name:     getEnv("AUTH_BOOTSTRAP_ADMIN_NAME", "Administrator"),
				Password: os.Getenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),
			},
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			QueueSize:  env.int("NOTIFY_QUEUE_SIZE", 100),
		},
	}

	if err := errors.Join(append(env.errs, cfg.Validate())...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the auth core cannot run with safely.
func (c *Config) Validate() error {
	var errs []error
	a := c.Auth

	if c.App.Env != "development" {
		if a.JWTSecret == "" || a.JWTSecret == devJWTSecret {
			errs = append(errs, errors.New("AUTH_JWT_SECRET must be set outside development"))
		}
		if a.PasswordPepper == "" || a.PasswordPepper == devPepper {
			errs = append(errs, errors.New("AUTH_PASSWORD_PEPPER must be set outside development"))
		}
	}
	if a.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is empty"))
	}
	if a.AccessTokenTTLMinutes <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_ACCESS_TOKEN_TTL_MINUTES must be positive (got %d)", a.AccessTokenTTLMinutes))
	}
	if a.Argon2Iterations < 1 || a.Argon2Iterations > auth.MaxArgon2Iterations {
		errs = append(errs, fmt.Errorf("AUTH_ARGON2_ITERATIONS must be in [1, %d] (got %d)", auth.MaxArgon2Iterations, a.Argon2Iterations))
	}
	if a.Argon2MemoryKiB < 8*1024 || a.Argon2MemoryKiB > auth.MaxArgon2MemoryKiB {
		errs = append(errs, fmt.Errorf("AUTH_ARGON2_MEMORY_KIB must be in [8192, %d] (got %d)", auth.MaxArgon2MemoryKiB, a.Argon2MemoryKiB))
	}
	if a.Argon2Parallelism < 1 || a.Argon2Parallelism > auth.MaxArgon2Parallelism {
		errs = append(errs, fmt.Errorf("AUTH_ARGON2_PARALLELISM must be in [1, %d] (got %d)", auth.MaxArgon2Parallelism, a.Argon2Parallelism))
	}
	if a.HashWorkers < 1 {
		errs = append(errs, errors.New("AUTH_HASH_WORKERS must be >= 1"))
	}
	admin := a.BootstrapAdmin
	if (admin.Email == "") != (admin.Password == "") {
		errs = append(errs, errors.New("AUTH_BOOTSTRAP_ADMIN_EMAIL and AUTH_BOOTSTRAP_ADMIN_PASSWORD must be set together"))
	}
	if c.Notification.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("NOTIFY_QUEUE_SIZE must be >= 1 (got %d)", c.Notification.QueueSize))
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the lifetime of issued bearer tokens.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// LoginWindow returns the failed-login counting window. Zero disables throttling.
func (a AuthConfig) LoginWindow() time.Duration {
	if a.LoginWindowSeconds <= 0 || a.LoginMaxAttempts <= 0 {
		return 0
	}
	return time.Duration(a.LoginWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// envReader parses numeric variables and records every malformed one, so Load
// reports them all instead of silently using defaults.
type envReader struct {
	errs []error
}

func (r *envReader) int(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %q is not an integer", key, val))
		return fallback
	}
	return parsed
}

func (r *envReader) uint(key string, fallback uint64, bitSize int) uint64 {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseUint(val, 10, bitSize)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %q is not an unsigned %d-bit integer", key, val, bitSize))
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
