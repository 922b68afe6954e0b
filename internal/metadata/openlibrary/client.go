// Package openlibrary provides a rate-limited client for the Open Library search API.
package openlibrary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/ratelimit"
)

const (
	// DefaultBaseURL is the public Open Library endpoint.
	DefaultBaseURL = "https://openlibrary.org"

	defaultTimeout = 30 * time.Second

	// Open Library asks clients to stay under ~100 requests per
	// 5 minutes; one burst-capable limiter key covers all searches.
	limiterKey   = "search"
	defaultBurst = 5
)

// Client is a rate-limited Open Library API client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	baseURL string
	logger  *slog.Logger
}

// New creates a new Open Library client.
// requestsPerMinute caps outbound search calls; baseURL and timeout
// are configurable for self-hosted mirrors and tests.
func New(baseURL string, timeout time.Duration, requestsPerMinute int, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		limiter: ratelimit.New(float64(requestsPerMinute)/60.0, defaultBurst),
		baseURL: baseURL,
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// doRequest executes an HTTP request with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Booknotes/1.0")

	c.logger.Debug("openlibrary request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
