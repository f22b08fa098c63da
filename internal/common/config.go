package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Mongo  MongoConfig
	Export ExportConfig
}

// MongoConfig holds document-database configuration
type MongoConfig struct {
	URI           string
	Database      string
	MaxRetries    int
	RetryDelay    time.Duration
	DialTimeout   time.Duration
	SocketTimeout time.Duration
	BatchSize     int
}

// ExportConfig holds spreadsheet/snapshot output configuration
type ExportConfig struct {
	OutputDir string
	SheetName string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Mongo: MongoConfig{
			URI:           getEnv("MONGO_URI", ""),
			Database:      getEnv("MONGO_DB", "warehouse"),
			MaxRetries:    getEnvAsInt("MONGO_MAX_RETRIES", 3),
			RetryDelay:    getEnvAsDuration("MONGO_RETRY_DELAY", 2*time.Second),
			DialTimeout:   getEnvAsDuration("MONGO_DIAL_TIMEOUT", 30*time.Second),
			SocketTimeout: getEnvAsDuration("MONGO_SOCKET_TIMEOUT", 30*time.Second),
			BatchSize:     getEnvAsInt("MONGO_BATCH_SIZE", 1000),
		},
		Export: ExportConfig{
			OutputDir: getEnv("EXPORT_DIR", "."),
			SheetName: getEnv("EXPORT_SHEET", "Invoices"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateForUpload checks the fields the upload path depends on.
func (c *Config) ValidateForUpload() error {
	if c.Mongo.URI == "" {
		return NewAppError("CONFIG_ERROR", "MONGO_URI is required", ErrInvalidInput)
	}
	if c.Mongo.BatchSize <= 0 {
		return NewAppError("CONFIG_ERROR", "MONGO_BATCH_SIZE must be positive", ErrInvalidInput)
	}
	return nil
}
