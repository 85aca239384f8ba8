// Package integrations provides shared HTTP functionality for registry
// API clients: caching, retry classification, and common error
// sentinels.
package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/depscout/depscout/pkg/cache"
	"github.com/depscout/depscout/pkg/httputil"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package doesn't exist in the
	// registry. A 404 is the sole "does not exist" signal; every other
	// failure is classified as ErrNetwork.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection
	// errors, unexpected statuses).
	ErrNetwork = errors.New("network error")
)

// Client provides shared HTTP functionality for registry API clients.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	retries  int
	delay    time.Duration
}

// Options tunes the retry budget and cache behavior of a Client.
type Options struct {
	Retries  int           // total attempts per request (default 3)
	Delay    time.Duration // initial backoff delay, doubled per attempt (default 1s)
	CacheTTL time.Duration // response cache lifetime (default 24h)
}

// NewClient creates a Client backed by the given cache. A nil cache
// disables caching.
func NewClient(c cache.Cache, opts Options) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	return &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    c,
		cacheTTL: opts.CacheTTL,
		retries:  opts.Retries,
		delay:    opts.Delay,
	}
}

// Cached retrieves a value from cache or executes fetch and caches the
// result. If refresh is true, the cache is bypassed and fetch is always
// called. The fetch function should populate v; on success, v is stored
// in the cache. Failures, including 404s, are never cached.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			return json.Unmarshal(data, v)
		}
	}
	if err := httputil.Retry(ctx, c.retries, c.delay, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.cacheTTL)
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// The caller is responsible for retry wrapping (see [Cached]); Get only
// classifies failures as retryable or not.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// checkStatus maps an HTTP status to the error taxonomy: 2xx succeeds,
// 404 is ErrNotFound, and everything else is a retryable network error.
func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	}
}
