package httpapi

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the HTTP server configuration.
type Config struct {
	Addr           string
	AllowedOrigins []string
	DatabasePath   string
	RefreshCron    string
}

// LoadConfig reads configuration from environment variables, with an
// optional .env file.
func LoadConfig() *Config {
	// Ignore a missing .env file, the environment alone is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         fmt.Sprintf("%s:%s", getEnv("SERVER_HOST", "localhost"), getEnv("SERVER_PORT", "5001")),
		DatabasePath: getEnv("DB_PATH", "./fintrack.db"),
		RefreshCron:  getEnv("REFRESH_CRON", "30 18 * * *"),
	}
	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}
	return cfg
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
