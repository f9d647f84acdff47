package forecastapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sotakimura/rain-lookup/internal/observability"
)

const forecastBody = `{
  "title": "東京都 東京 の天気",
  "forecasts": [
    {"date": "2026-08-31", "telop": "晴れ", "chanceOfRain": {"T00_06": "0%", "T06_12": "10%", "T12_18": "20%", "T18_24": "30%"}},
    {"date": "2026-09-01", "telop": "曇り", "chanceOfRain": {"T00_06": "40%"}},
    {"date": "2026-09-02", "telop": "雨"}
  ]
}`

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, timeout,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting())
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/130010", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	f, err := testClient(srv.URL, 5*time.Second).Fetch(context.Background(), "130010")
	require.NoError(t, err)

	require.Len(t, f.Days, 3)
	assert.Equal(t, "晴れ", f.Days[0].Telop)
	assert.Equal(t, "10%", f.Days[0].ChanceOfRain["T06_12"])
	assert.Nil(t, f.Days[2].ChanceOfRain, "a day may carry no chanceOfRain at all")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 20*time.Millisecond).Fetch(context.Background(), "130010")
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, Timeout, fe.Kind)
	assert.Equal(t, "130010", fe.Code)
}

func TestClient_Fetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such city", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).Fetch(context.Background(), "999999")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, HTTPError, fe.Kind)
	assert.Equal(t, http.StatusNotFound, fe.Status)
}

func TestClient_Fetch_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).Fetch(context.Background(), "130010")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, DecodeError, fe.Kind)
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testClient(srv.URL, time.Second).Fetch(context.Background(), "130010")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, Unreachable, fe.Kind)
}

func TestClient_Fetch_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := testClient(srv.URL, time.Second)

	// gobreaker's default readiness trips after five consecutive failures.
	for i := 0; i < 6; i++ {
		_, _ = c.Fetch(context.Background(), "130010")
	}

	_, err := c.Fetch(context.Background(), "130010")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, Unreachable, fe.Kind)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
}
