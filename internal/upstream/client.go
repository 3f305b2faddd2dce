// Package upstream contains the clients for the third-party APIs the backend
// proxies: current weather, the regional tourism event feed and the public map
// token used by the frontend's geocoder.
//
// All clients share one Client, which owns the HTTP transport, the response
// cache and the retry policy.
package upstream

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/maypok86/otter/v2"
)

// ErrNotConfigured is returned by clients whose credentials or endpoint were
// not provided at startup.
var ErrNotConfigured = errors.New("upstream: not configured")

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// StatusError is returned when an upstream answers with a non-2xx status
// after all retries.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream: HTTP %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether the status is worth another attempt.
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// HTTPClient is the subset of *http.Client the upstream clients need.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs cached, retried JSON GETs.
type Client struct {
	http     HTTPClient
	cache    *otter.Cache[string, []byte]
	log      *slog.Logger
	attempts uint
	delay    time.Duration
	maxDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 10s-timeout http.Client.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.http = h }
}

// WithRetry sets the number of attempts and the base backoff delay.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.delay = delay
	}
}

// NewClient returns a Client whose successful responses are cached for ttl.
// A ttl of zero or less disables caching.
func NewClient(ttl time.Duration, log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
		attempts: 3,
		delay:    200 * time.Millisecond,
		maxDelay: 2 * time.Second,
	}
	if ttl > 0 {
		c.cache = otter.Must(&otter.Options[string, []byte]{
			MaximumSize:      10_000,
			ExpiryCalculator: otter.ExpiryWriting[string, []byte](ttl),
		})
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches rawURL and decodes the JSON body into dst.
// 429 and 5xx responses and transport errors are retried with full-jitter
// backoff; any other non-2xx status is returned as *StatusError at once.
func (c *Client) GetJSON(ctx context.Context, rawURL string, dst any) error {
	key := cacheKey(rawURL)
	if body, ok := c.cached(key); ok {
		c.log.DebugContext(ctx, "upstream cache hit", "key", key[:12])
		return decode(body, dst)
	}

	var body []byte
	err := retry.Do(
		func() error {
			b, err := c.fetch(ctx, rawURL)
			if err != nil {
				var se *StatusError
				if errors.As(err, &se) && !se.retryable() {
					return retry.Unrecoverable(err)
				}
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.MaxDelay(c.maxDelay),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.DebugContext(ctx, "retrying upstream request", "attempt", n+1, "key", key[:12], "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("upstream.Client.GetJSON: %w", err)
	}

	if err := decode(body, dst); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Set(key, body)
	}
	return nil
}

// Invalidate drops the cached response for rawURL, if any.
func (c *Client) Invalidate(rawURL string) {
	if c.cache != nil {
		c.cache.Invalidate(cacheKey(rawURL))
	}
}

func (c *Client) cached(key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.GetIfPresent(key)
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tinytrails-backend/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
	}
	return body, nil
}

// cacheKey hashes the URL so secrets in the query string are not kept as keys.
func cacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

func decode(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("upstream: decoding response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
