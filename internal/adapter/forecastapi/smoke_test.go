//go:build live

package forecastapi

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sotakimura/rain-lookup/internal/observability"
)

// These tests hit the real forecast feed and need network access.
// Run with: go test -tags=live ./internal/adapter/forecastapi/ -v -count=1

func TestSmoke_FetchTokyo(t *testing.T) {
	c := NewClient("https://weather.tsukumijima.net/api/forecast/city", 10*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting())

	f, err := c.Fetch(context.Background(), "130010")
	require.NoError(t, err)

	require.NotEmpty(t, f.Days)
	probs := f.Days[0].ChanceOfRain
	assert.NotNil(t, probs)
	t.Logf("today in Tokyo: %v", probs)
}
