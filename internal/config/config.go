package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage backend selection
	Storage StorageConfig

	// Database configuration (postgres storage driver)
	Database DatabaseConfig

	// Redis configuration (redis storage driver)
	Redis RedisConfig

	// JWT configuration
	JWT JWTConfig

	// CORS configuration
	CORS CORSConfig

	// Security configuration
	Security SecurityConfig

	// Bootstrap admin account
	Admin AdminConfig

	// Client seed fetch
	Bootstrap BootstrapConfig

	// Dashboard refresh
	Dashboard DashboardConfig

	// Scheduled cleanup jobs
	Housekeeping HousekeepingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// StorageConfig selects the key/value backend
type StorageConfig struct {
	Driver string // memory, file, postgres, redis
	Dir    string // file driver only
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	NotifyChannel      string
}

// RedisConfig holds redis-related configuration
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Channel   string
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost       int
	EnableRequestLog bool

	// Failed login throttling
	MaxLoginAttemptsPerUser int
	LoginUserWindow         time.Duration
	MaxLoginAttemptsPerIP   int
	LoginIPWindow           time.Duration
}

// AdminConfig describes the admin account created when none exists.
// PasswordHash is a bcrypt hash, see cmd/generate-secrets.
type AdminConfig struct {
	Username     string
	PasswordHash string
	FullName     string
}

// BootstrapConfig holds the client seed document location
type BootstrapConfig struct {
	ClientSeedURL string
	Timeout       time.Duration
}

// DashboardConfig holds dashboard refresh configuration
type DashboardConfig struct {
	PollInterval    time.Duration
	StreamHeartbeat time.Duration
}

// HousekeepingConfig holds cron schedules with a seconds field
type HousekeepingConfig struct {
	Enabled               bool
	LoginAttemptsSchedule string
	SessionPruneSchedule  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := FromEnv()

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// FromEnv reads the configuration without loading .env or validating
func FromEnv() *Config {
	seedBase := strings.TrimRight(getEnv("CLIENT_SEED_BASE_URL", "http://localhost:8000"), "/")

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
			Dir:    getEnv("STORAGE_DIR", "./data"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
			NotifyChannel:      getEnv("DATABASE_NOTIFY_CHANNEL", "storage_changes"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "hotel:"),
			Channel:   getEnv("REDIS_CHANNEL", "hotel:storage:changes"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiry:  time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
			RefreshTokenExpiry: time.Duration(getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY", 604800)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Security: SecurityConfig{
			BcryptCost:       getEnvAsInt("BCRYPT_COST", 12),
			EnableRequestLog: getEnvAsBool("ENABLE_REQUEST_LOGGING", true),

			MaxLoginAttemptsPerUser: getEnvAsInt("LOGIN_MAX_ATTEMPTS_PER_USER", 5),
			LoginUserWindow:         time.Duration(getEnvAsInt("LOGIN_USER_WINDOW_MINUTES", 15)) * time.Minute,
			MaxLoginAttemptsPerIP:   getEnvAsInt("LOGIN_MAX_ATTEMPTS_PER_IP", 20),
			LoginIPWindow:           time.Duration(getEnvAsInt("LOGIN_IP_WINDOW_MINUTES", 60)) * time.Minute,
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			FullName:     getEnv("ADMIN_FULL_NAME", "Administrator"),
		},
		Bootstrap: BootstrapConfig{
			ClientSeedURL: getEnv("CLIENT_SEED_URL", seedBase+"/data/clients.json"),
			Timeout:       time.Duration(getEnvAsInt("CLIENT_SEED_TIMEOUT", 5)) * time.Second,
		},
		Dashboard: DashboardConfig{
			PollInterval:    time.Duration(getEnvAsInt("DASHBOARD_POLL_INTERVAL_MS", 2000)) * time.Millisecond,
			StreamHeartbeat: time.Duration(getEnvAsInt("DASHBOARD_STREAM_HEARTBEAT_SECONDS", 15)) * time.Second,
		},
		Housekeeping: HousekeepingConfig{
			Enabled:               getEnvAsBool("HOUSEKEEPING_ENABLED", true),
			LoginAttemptsSchedule: getEnv("HOUSEKEEPING_LOGIN_ATTEMPTS_SCHEDULE", "0 */15 * * * *"),
			SessionPruneSchedule:  getEnv("HOUSEKEEPING_SESSION_PRUNE_SCHEDULE", "0 30 3 * * *"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("STORAGE_DIR is required for the file storage driver")
		}
	case StoragePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	case StorageRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis storage driver")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s (must be 'memory', 'file', 'postgres' or 'redis')", c.Storage.Driver)
	}

	// Username and hash travel together
	if (c.Admin.Username == "") != (c.Admin.PasswordHash == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD_HASH must be set together")
	}

	if c.Dashboard.PollInterval <= 0 {
		return fmt.Errorf("DASHBOARD_POLL_INTERVAL_MS must be positive")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
