package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"shipping-engine/internal/carriers"
)

// Config holds all configuration for the shipping engine
type Config struct {
	Server             ServerConfig
	Database           DatabaseConfig
	RedisURL           string
	NatsURL            string
	WebhookSecret      string
	StuckThresholdDays int
	SweepSchedule      string
	Carriers           CarriersConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// CarriersConfig holds env-level carrier defaults, keyed by company
// type. Per-company base URL and API key from the database override
// these.
type CarriersConfig struct {
	Fest   carriers.Config
	Direct carriers.Config
}

// Defaults returns the env-level carrier settings keyed by company
// code, the shape the carrier factory consumes
func (c CarriersConfig) Defaults() map[string]carriers.Config {
	return map[string]carriers.Config{
		"FEST": c.Fest,
		"PTT":  c.Direct,
	}
}

// Load loads configuration from the environment. A .env file, when
// present, is read first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8088"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "shipping_engine"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisURL:           getEnv("REDIS_URL", ""),
		NatsURL:            getEnv("NATS_URL", ""),
		WebhookSecret:      getEnv("WEBHOOK_SECRET", ""),
		StuckThresholdDays: getEnvAsInt("STUCK_THRESHOLD_DAYS", 3),
		SweepSchedule:      getEnv("SWEEP_SCHEDULE", "@hourly"),
		Carriers: CarriersConfig{
			Fest: carriers.Config{
				APIKey:       getEnv("FEST_API_KEY", ""),
				BaseURL:      getEnv("FEST_BASE_URL", "https://api.festkargo.com.tr"),
				Enabled:      getEnvBool("FEST_ENABLED", true),
				IsProduction: getEnvBool("FEST_IS_PRODUCTION", false),
			},
			Direct: carriers.Config{
				APIKey:       getEnv("DIRECT_API_KEY", ""),
				BaseURL:      getEnv("DIRECT_BASE_URL", ""),
				Enabled:      getEnvBool("DIRECT_ENABLED", true),
				IsProduction: getEnvBool("DIRECT_IS_PRODUCTION", false),
			},
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.StuckThresholdDays <= 0 {
		return fmt.Errorf("STUCK_THRESHOLD_DAYS must be positive")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an integer environment variable or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}
