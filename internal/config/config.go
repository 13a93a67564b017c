package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	App       AppConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds database connection settings.
// URL takes precedence over the discrete Postgres fields when set.
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	MaxOpenConns int
	MaxIdleConns int
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port        string
	FrontendURL string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret                 string
	DefaultCreatorRewardCents int64
	ViabilitySweepInterval    time.Duration
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level      string
	Format     string // json, text
	Output     string // stdout, file
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// RateLimitConfig holds limits for write endpoints
type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
	Burst     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	sweep, err := time.ParseDuration(getEnv("VIABILITY_SWEEP_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid VIABILITY_SWEEP_INTERVAL: %w", err)
	}

	config := &Config{
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			DBName:       getEnv("DB_NAME", "trips_club"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 10),
		},
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			FrontendURL: getEnv("FRONTEND_URL", ""),
		},
		App: AppConfig{
			JWTSecret:                 getEnv("JWT_SECRET", ""),
			DefaultCreatorRewardCents: int64(getEnvInt("DEFAULT_CREATOR_REWARD_CENTS", 2000)),
			ViabilitySweepInterval:    sweep,
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE_PATH", "logs/trips-club.log"),
			MaxSize:    getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAge:     getEnvInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		RateLimit: RateLimitConfig{
			Enabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
			Burst:     getEnvInt("RATE_LIMIT_BURST", 20),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.App.DefaultCreatorRewardCents < 0 {
		return nil, fmt.Errorf("DEFAULT_CREATOR_REWARD_CENTS must not be negative")
	}

	return config, nil
}

// GetDSN returns the database connection string. A DATABASE_URL with a
// sqlite:// or postgres:// prefix is returned untouched; otherwise a
// PostgreSQL keyword DSN is assembled from the discrete fields.
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// IsSQLite reports whether the configured database is SQLite
func (c *Config) IsSQLite() bool {
	return strings.HasPrefix(c.Database.URL, "sqlite://")
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
