package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Portfolio PortfolioConfig
	CORS      CORSConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// PortfolioConfig holds the portfolio data sources and refresh behaviour.
type PortfolioConfig struct {
	// CSVPath seeds the holdings table at startup when it is empty.
	// Optional; the import endpoint works regardless.
	CSVPath string
	// HoldingsDir is the base directory constituent export files are
	// resolved against.
	HoldingsDir string
	// RefreshSchedule is a cron expression for automatic metrics passes.
	// Empty disables scheduled refreshes; manual refresh always works.
	RefreshSchedule string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portdash.db"),
		},
		Portfolio: PortfolioConfig{
			CSVPath:         getEnv("PORTFOLIO_CSV", ""),
			HoldingsDir:     getEnv("HOLDINGS_DIR", "./data/holdings"),
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
