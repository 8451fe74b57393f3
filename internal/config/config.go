package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port          int    `validate:"min=1,max=65535"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	LogJSON       bool
	ConfigDir     string `validate:"required"` // catalog JSON directory
	DataDir       string `validate:"required"` // file save store + dead letter queue
	SaveBackend   string `validate:"oneof=file postgres"`
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	AutosaveEvery time.Duration `validate:"min=10s"`
	DecayEvery    time.Duration `validate:"min=1s"`
	RandomSeed    int64         // 0 means time-seeded
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogJSON:     getEnv("LOG_FORMAT", "text") == "json",
		ConfigDir:   getEnv("CONFIG_DIR", "configs"),
		DataDir:     getEnv("DATA_DIR", "data"),
		SaveBackend: getEnv("SAVE_BACKEND", "file"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "petgrotto"),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	cfg.AutosaveEvery, err = parseDurationEnv("AUTOSAVE_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}
	cfg.DecayEvery, err = parseDurationEnv("DECAY_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}

	if seedStr := getEnv("RANDOM_SEED", ""); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RANDOM_SEED value: %w", err)
		}
		cfg.RandomSeed = seed
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
