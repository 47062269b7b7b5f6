// Package config loads wardrobe settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values.
type Config struct {
	// Recommendation service
	APIURL        string
	ClientTimeout time.Duration

	// Session defaults
	SearchLimit int
	SuggestTopK int
	Threshold   float64

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first; variables already set take precedence.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() Config {
	return Config{
		APIURL:        getEnv("WARDROBE_API_URL", "http://localhost:8000"),
		ClientTimeout: parseDuration(getEnv("WARDROBE_CLIENT_TIMEOUT", "0"), 0),

		SearchLimit: parseInt(getEnv("WARDROBE_SEARCH_LIMIT", "200"), 200),
		SuggestTopK: parseInt(getEnv("WARDROBE_SUGGEST_TOP_K", "100"), 100),
		Threshold:   parseFloat(getEnv("WARDROBE_THRESHOLD", "0.5"), 0.5),

		LogFile:  getEnv("WARDROBE_LOG_FILE", "/tmp/wardrobe.log"),
		LogLevel: parseLogLevel(getEnv("WARDROBE_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return fallback
	}
	return f
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
