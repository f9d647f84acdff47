package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Location directory feed.
	DirectoryURL     string
	DirectoryTimeout time.Duration
	DirectoryTTL     time.Duration

	// Forecast feed.
	ForecastBaseURL string
	ForecastTimeout time.Duration

	// Preselected prefecture/city pair. The city default is sticky to its
	// own prefecture only.
	DefaultPrefecture string
	DefaultCity       string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	directoryTimeout, err := envDuration("DIRECTORY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	directoryTTL, err := envDuration("DIRECTORY_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	forecastTimeout, err := envDuration("FORECAST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DirectoryURL:     envOrDefault("DIRECTORY_URL", "https://weather.tsukumijima.net/primary_area.xml"),
		DirectoryTimeout: directoryTimeout,
		DirectoryTTL:     directoryTTL,

		ForecastBaseURL: envOrDefault("FORECAST_BASE_URL", "https://weather.tsukumijima.net/api/forecast/city"),
		ForecastTimeout: forecastTimeout,

		DefaultPrefecture: envOrDefault("DEFAULT_PREFECTURE", "東京都"),
		DefaultCity:       envOrDefault("DEFAULT_CITY", "東京"),
	}

	if cfg.DirectoryURL == "" {
		return nil, errors.New("DIRECTORY_URL is required")
	}
	if cfg.ForecastBaseURL == "" {
		return nil, errors.New("FORECAST_BASE_URL is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}
