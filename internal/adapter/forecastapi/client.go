// Package forecastapi fetches the multi-day precipitation forecast feed.
package forecastapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/sotakimura/rain-lookup/internal/domain"
	"github.com/sotakimura/rain-lookup/internal/observability"
)

// ErrorKind classifies forecast fetch failures. All of them are recoverable
// at the caller: the interaction renders an error message and terminates,
// there is no automatic retry.
type ErrorKind int

const (
	// Timeout means no response arrived within the configured budget.
	Timeout ErrorKind = iota
	// Unreachable covers connection-level failures and an open circuit.
	Unreachable
	// HTTPError means the feed answered with a non-2xx status.
	HTTPError
	// DecodeError means the response body was not valid forecast JSON.
	DecodeError
)

func (k ErrorKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case Unreachable:
		return "unreachable"
	case HTTPError:
		return "http_error"
	case DecodeError:
		return "decode_error"
	default:
		return "unknown"
	}
}

// FetchError reports a failed forecast fetch with its classification and the
// location code for diagnosis.
type FetchError struct {
	Kind   ErrorKind
	Code   string
	Status int // set for HTTPError only
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == HTTPError {
		return fmt.Sprintf("forecast fetch %s for code %s: status %d", e.Kind, e.Code, e.Status)
	}
	return fmt.Sprintf("forecast fetch %s for code %s: %v", e.Kind, e.Code, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches forecasts from {base}/{code}. Failures trip a circuit
// breaker so a dead feed fails fast instead of burning the full timeout on
// every interaction; requests are never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a forecast feed client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "forecast-feed",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch retrieves the forecast for one location code. Failures are returned
// as *FetchError; successful responses are never cached, each display cycle
// fetches anew.
func (c *Client) Fetch(ctx context.Context, code string) (domain.Forecast, error) {
	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Forecast{}, c.fail(&FetchError{Kind: Unreachable, Code: code, Err: err})
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.httpClient.Do(req)
	})
	c.metrics.ForecastDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return domain.Forecast{}, c.fail(classifyTransport(code, err))
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Forecast{}, c.fail(&FetchError{
			Kind:   HTTPError,
			Code:   code,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		})
	}

	var forecast domain.Forecast
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return domain.Forecast{}, c.fail(&FetchError{Kind: DecodeError, Code: code, Err: err})
	}

	c.metrics.ForecastRequests.WithLabelValues("success").Inc()
	return forecast, nil
}

// classifyTransport maps a transport-level failure onto the error taxonomy.
func classifyTransport(code string, err error) *FetchError {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &FetchError{Kind: Unreachable, Code: code, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{Kind: Timeout, Code: code, Err: err}
	}

	return &FetchError{Kind: Unreachable, Code: code, Err: err}
}

func (c *Client) fail(fe *FetchError) *FetchError {
	c.metrics.ForecastRequests.WithLabelValues(fe.Kind.String()).Inc()
	c.logger.Error("forecast fetch failed",
		"code", fe.Code,
		"kind", fe.Kind.String(),
		"error", fe.Err,
	)
	return fe
}
