package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://weather.tsukumijima.net/primary_area.xml", cfg.DirectoryURL)
	assert.Equal(t, 10*time.Second, cfg.DirectoryTimeout)
	assert.Equal(t, time.Hour, cfg.DirectoryTTL)
	assert.Equal(t, "https://weather.tsukumijima.net/api/forecast/city", cfg.ForecastBaseURL)
	assert.Equal(t, 10*time.Second, cfg.ForecastTimeout)
	assert.Equal(t, "東京都", cfg.DefaultPrefecture)
	assert.Equal(t, "東京", cfg.DefaultCity)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DIRECTORY_URL", "http://localhost:8000/areas.xml")
	t.Setenv("DIRECTORY_TTL", "30m")
	t.Setenv("FORECAST_TIMEOUT", "3s")
	t.Setenv("DEFAULT_PREFECTURE", "大阪府")
	t.Setenv("DEFAULT_CITY", "大阪")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:8000/areas.xml", cfg.DirectoryURL)
	assert.Equal(t, 30*time.Minute, cfg.DirectoryTTL)
	assert.Equal(t, 3*time.Second, cfg.ForecastTimeout)
	assert.Equal(t, "大阪府", cfg.DefaultPrefecture)
	assert.Equal(t, "大阪", cfg.DefaultCity)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_InvalidDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DIRECTORY_TTL", "often"},
		{"DIRECTORY_TTL", "-1h"},
		{"FORECAST_TIMEOUT", "0s"},
		{"SHUTDOWN_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
