package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for a service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Department DepartmentClientConfig
	Tracing    TracingConfig
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
	Enabled  bool
	Addr     string
	Password string
	DB       int
	// LockTTLSeconds bounds how long a per-key write lock may be held.
	LockTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// DepartmentClientConfig configures the outbound department lookup.
type DepartmentClientConfig struct {
	BaseURL                string
	TimeoutSeconds         int
	BreakerMaxRequests     uint32
	BreakerIntervalSeconds int
	BreakerTimeoutSeconds  int
	BreakerMinRequests     uint32
	BreakerFailureRatio    float64
}

// TracingConfig configures OTLP export of traces and logs. An empty endpoint disables export.
type TracingConfig struct {
	Endpoint string
	Insecure bool
}

// Enabled reports whether an OTLP endpoint is configured.
func (t TracingConfig) Enabled() bool {
	return t.Endpoint != ""
}

// Load reads configuration from environment variables, applying defaults where possible.
// service and port seed APP_NAME and APP_PORT when those are unset.
func Load(service, port string) (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ratio, err := strconv.ParseFloat(getEnv("DEPARTMENT_BREAKER_FAILURE_RATIO", "0.6"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEPARTMENT_BREAKER_FAILURE_RATIO: %w", err)
	}
	if ratio <= 0 || ratio > 1 {
		return nil, fmt.Errorf("DEPARTMENT_BREAKER_FAILURE_RATIO must be in (0,1], got %v", ratio)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", service),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", port),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
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
			Enabled:        getEnvAsBool("REDIS_ENABLED", false),
			Addr:           getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             redisDB,
			LockTTLSeconds: getEnvAsInt("REDIS_LOCK_TTL_SECONDS", 5),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Department: DepartmentClientConfig{
			BaseURL:                getEnv("DEPARTMENT_SERVICE_URL", "http://127.0.0.1:8081"),
			TimeoutSeconds:         getEnvAsInt("DEPARTMENT_CLIENT_TIMEOUT_SECONDS", 5),
			BreakerMaxRequests:     uint32(getEnvAsInt("DEPARTMENT_BREAKER_MAX_REQUESTS", 3)),
			BreakerIntervalSeconds: getEnvAsInt("DEPARTMENT_BREAKER_INTERVAL_SECONDS", 30),
			BreakerTimeoutSeconds:  getEnvAsInt("DEPARTMENT_BREAKER_TIMEOUT_SECONDS", 30),
			BreakerMinRequests:     uint32(getEnvAsInt("DEPARTMENT_BREAKER_MIN_REQUESTS", 5)),
			BreakerFailureRatio:    ratio,
		},
		Tracing: TracingConfig{
			Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure: getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
	}

	return cfg, nil
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

// LockTTL returns the per-key lock lifetime.
func (r RedisConfig) LockTTL() time.Duration {
	if r.LockTTLSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.LockTTLSeconds) * time.Second
}

// Timeout returns the per-call timeout of the department client.
func (d DepartmentClientConfig) Timeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(d.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
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
