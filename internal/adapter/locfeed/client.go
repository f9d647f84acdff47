// Package locfeed fetches and caches the remote location directory feed.
package locfeed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sotakimura/rain-lookup/internal/domain"
	"github.com/sotakimura/rain-lookup/internal/observability"
)

// ErrorKind classifies directory build failures.
type ErrorKind int

const (
	// FetchFailure covers transport problems: timeouts, connection errors,
	// and non-2xx responses.
	FetchFailure ErrorKind = iota
	// ParseFailure means the feed body was not a well-formed directory document.
	ParseFailure
)

func (k ErrorKind) String() string {
	switch k {
	case FetchFailure:
		return "fetch_failure"
	case ParseFailure:
		return "parse_failure"
	default:
		return "unknown"
	}
}

// DirectoryError reports a failed directory build with its classification
// and the feed URL for diagnosis.
type DirectoryError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("location directory %s (%s): %v", e.Kind, e.URL, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// Client fetches the location feed and parses it into a directory snapshot.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a location feed client with the given request timeout.
func NewClient(url string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchDirectory retrieves and parses one directory snapshot. Failures are
// returned as *DirectoryError; an empty (but well-formed) feed is not an
// error here, callers decide what an empty directory means.
func (c *Client) FetchDirectory(ctx context.Context) (domain.Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Directory{}, &DirectoryError{Kind: FetchFailure, URL: c.url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.DirectoryBuilds.WithLabelValues("fetch_error").Inc()
		c.logger.Error("location feed request failed", "url", c.url, "error", err)
		return domain.Directory{}, &DirectoryError{Kind: FetchFailure, URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.DirectoryBuilds.WithLabelValues("fetch_error").Inc()
		c.logger.Error("location feed returned non-OK status", "url", c.url, "status", resp.StatusCode)
		return domain.Directory{}, &DirectoryError{
			Kind: FetchFailure,
			URL:  c.url,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.DirectoryBuilds.WithLabelValues("fetch_error").Inc()
		return domain.Directory{}, &DirectoryError{Kind: FetchFailure, URL: c.url, Err: err}
	}

	dir, err := domain.ParseDirectory(body)
	if err != nil {
		c.metrics.DirectoryBuilds.WithLabelValues("parse_error").Inc()
		c.logger.Error("location feed parse failed", "url", c.url, "error", err)
		return domain.Directory{}, &DirectoryError{Kind: ParseFailure, URL: c.url, Err: err}
	}

	c.metrics.DirectoryBuilds.WithLabelValues("success").Inc()
	c.metrics.DirectoryPrefectures.Set(float64(len(dir.Prefectures)))
	c.logger.Info("location directory built", "url", c.url, "prefectures", len(dir.Prefectures))
	return dir, nil
}
