package config

import "os"

// Config holds application configuration
type Config struct {
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./lernbuddy.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
