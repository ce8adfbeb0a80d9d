package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxDatasetDelay bounds KANBAN_DATASET_DELAY.
const MaxDatasetDelay = 10 * time.Second

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Event bus implementations.
const (
	PubSubLocal = "local"
	PubSubRedis = "redis"
)

var (
	backends    = []string{BackendFile, BackendSQLite, BackendPostgres, BackendRedis, BackendMemory}
	pubsubKinds = []string{PubSubLocal, PubSubRedis}
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server          ServerConfig
	RateLimit       RateLimitConfig
	Storage         StorageConfig
	Database        DatabaseConfig
	Redis           RedisConfig
	Dataset         DatasetConfig
	PubSub          string
	CheckInvariants bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// RateLimitConfig holds the per-IP token bucket settings.
type RateLimitConfig struct {
	RPS   int
	Burst int
}

// StorageConfig selects where the board state is persisted.
type StorageConfig struct {
	Backend string
	Dir     string
	Key     string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// DatasetConfig controls remote hydration.
type DatasetConfig struct {
	URL            string
	Delay          time.Duration
	FetchTimeout   time.Duration
	HydrateOnStart bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	readTimeout, err := getEnvDuration("KANBAN_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("KANBAN_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rps, err := getEnvInt("KANBAN_RATE_LIMIT_RPS", 50)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	burst, err := getEnvInt("KANBAN_RATE_LIMIT_BURST", 100)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbPort, err := getEnvInt("KANBAN_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("KANBAN_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("KANBAN_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	delay, err := getEnvDuration("KANBAN_DATASET_DELAY", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	fetchTimeout, err := getEnvDuration("KANBAN_FETCH_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	hydrateOnStart, err := getEnvBool("KANBAN_HYDRATE_ON_START", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	checkInvariants, err := getEnvBool("KANBAN_CHECK_INVARIANTS", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:         getEnv("KANBAN_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  getEnvList("KANBAN_CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("KANBAN_STORAGE_BACKEND", BackendFile)),
			Dir:     getEnv("KANBAN_STORAGE_DIR", ".kanban"),
			Key:     getEnv("KANBAN_STORAGE_KEY", "kanban-board-state"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("KANBAN_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("KANBAN_DB_USER", "kanban"),
			Password: getEnv("KANBAN_DB_PASSWORD", ""),
			DBName:   getEnv("KANBAN_DB_NAME", "kanban"),
			SSLMode:  getEnv("KANBAN_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("KANBAN_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("KANBAN_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Dataset: DatasetConfig{
			URL:            getEnv("KANBAN_DATASET_URL", "/data.json"),
			Delay:          delay,
			FetchTimeout:   fetchTimeout,
			HydrateOnStart: hydrateOnStart,
		},
		PubSub:          strings.ToLower(getEnv("KANBAN_PUBSUB", PubSubLocal)),
		CheckInvariants: checkInvariants,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if !slices.Contains(backends, c.Storage.Backend) {
		return fmt.Errorf("KANBAN_STORAGE_BACKEND must be one of %s, got %q", strings.Join(backends, ", "), c.Storage.Backend)
	}
	if !slices.Contains(pubsubKinds, c.PubSub) {
		return fmt.Errorf("KANBAN_PUBSUB must be one of %s, got %q", strings.Join(pubsubKinds, ", "), c.PubSub)
	}

	// DB SSL mode warning only matters when postgres is in use.
	if c.Storage.Backend == BackendPostgres && c.Database.SSLMode == "disable" {
		log.Warn().Msg("KANBAN_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("KANBAN_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("KANBAN_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("KANBAN_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("KANBAN_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.RateLimit.RPS < 1 {
		return fmt.Errorf("KANBAN_RATE_LIMIT_RPS must be >= 1, got %d", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("KANBAN_RATE_LIMIT_BURST must be >= 1, got %d", c.RateLimit.Burst)
	}
	if c.Dataset.FetchTimeout <= 0 {
		return fmt.Errorf("KANBAN_FETCH_TIMEOUT must be positive, got %s", c.Dataset.FetchTimeout)
	}
	if c.Dataset.Delay < 0 {
		return fmt.Errorf("KANBAN_DATASET_DELAY must not be negative, got %s", c.Dataset.Delay)
	}
	if c.Dataset.Delay > MaxDatasetDelay {
		log.Warn().Dur("delay", c.Dataset.Delay).Msg("KANBAN_DATASET_DELAY clamped to 10s")
		c.Dataset.Delay = MaxDatasetDelay
	}
	if c.Storage.Key == "" {
		return errors.New("KANBAN_STORAGE_KEY is required")
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// DatasetURL returns the absolute dataset URL. A path-only URL points at
// this server's own dev dataset endpoint.
func (c *Config) DatasetURL() string {
	if !strings.HasPrefix(c.Dataset.URL, "/") {
		return c.Dataset.URL
	}
	host, port, err := net.SplitHostPort(c.Server.Addr)
	if err != nil {
		return "http://" + c.Server.Addr + c.Dataset.URL
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + c.Dataset.URL
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
