package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Storage StorageConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Routes  RoutesConfig
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

// APIConfig points at the remote SRW REST API the portal fronts.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SessionConfig controls the per-browser session machinery.
type SessionConfig struct {
	CookieName           string
	IdleTTLMinutes       int
	SweepIntervalSeconds int
}

// StorageConfig selects the durable auth-data backend.
type StorageConfig struct {
	// Backend is one of "memory", "file", "redis".
	Backend  string
	FilePath string
	// RedisTTLMinutes bounds abandoned session slots; zero disables expiry.
	RedisTTLMinutes int
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

// RoutesConfig names the portal paths guards redirect to.
type RoutesConfig struct {
	Login        string
	Unauthorized string
	Home         string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := getEnv("STORAGE_BACKEND", "memory")
	switch backend {
	case "memory", "file", "redis":
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "srw-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		API: APIConfig{
			BaseURL:        getEnv("SRW_API_BASE_URL", "http://127.0.0.1:9090"),
			TimeoutSeconds: getEnvAsInt("SRW_API_TIMEOUT_SECONDS", 10),
		},
		Session: SessionConfig{
			CookieName:           getEnv("SESSION_COOKIE_NAME", "srw_sid"),
			IdleTTLMinutes:       getEnvAsInt("SESSION_IDLE_TTL_MINUTES", 120),
			SweepIntervalSeconds: getEnvAsInt("SESSION_SWEEP_INTERVAL_SECONDS", 60),
		},
		Storage: StorageConfig{
			Backend:         backend,
			FilePath:        getEnv("STORAGE_FILE_PATH", "data/auth-store.json"),
			RedisTTLMinutes: getEnvAsInt("STORAGE_REDIS_TTL_MINUTES", 240),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Routes: RoutesConfig{
			Login:        getEnv("ROUTE_LOGIN", "/login"),
			Unauthorized: getEnv("ROUTE_UNAUTHORIZED", "/unauthorized"),
			Home:         getEnv("ROUTE_HOME", "/dashboard"),
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

// Timeout returns the outbound API call timeout.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// IdleTTL returns how long an untouched browser session is kept.
func (s SessionConfig) IdleTTL() time.Duration {
	if s.IdleTTLMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(s.IdleTTLMinutes) * time.Minute
}

// SweepInterval returns the sweeper tick period.
func (s SessionConfig) SweepInterval() time.Duration {
	if s.SweepIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.SweepIntervalSeconds) * time.Second
}

// RedisTTL returns the storage key expiry for the redis backend.
func (s StorageConfig) RedisTTL() time.Duration {
	if s.RedisTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.RedisTTLMinutes) * time.Minute
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
