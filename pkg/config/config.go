package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Scheduling
	Timezone           string
	MinimumGapMinutes  int
	OptimalGapMinutes  int
	MaxRemindersPerDay int
	SchedulerSeed      int64

	// Database
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// Worker
	WorkerHealthAddr string
	SweepSchedule    string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("TOUCHBASE_USER_ID", "00000000-0000-0000-0000-000000000001"),

		Timezone:           getEnv("TIMEZONE", "UTC"),
		MinimumGapMinutes:  getIntEnv("MIN_GAP_MINUTES", 20),
		OptimalGapMinutes:  getIntEnv("OPTIMAL_GAP_MINUTES", 1440),
		MaxRemindersPerDay: getIntEnv("MAX_REMINDERS_PER_DAY", 5),
		SchedulerSeed:      getInt64Env("SCHEDULER_SEED", 0),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("TOUCHBASE_DB_PATH", getDefaultDBPath()),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		SweepSchedule:    getEnv("SWEEP_SCHEDULE", "@every 1m"),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsLocalMode reports whether the app runs against the SQLite file instead of
// Postgres.
func (c *Config) IsLocalMode() bool {
	return c.DatabaseURL == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}


func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".touchbase/touchbase.db"
	}
	return home + "/.touchbase/touchbase.db"
}
