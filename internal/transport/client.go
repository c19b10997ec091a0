// Package transport provides the shared HTTP plumbing for authority
// source clients: per-call timeouts, a minimum inter-request throttle,
// and defensive JSON decoding.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nomina-io/nomina/pkg/errors"
)

// DefaultTimeout is the per-call deadline when none is configured.
const DefaultTimeout = 15 * time.Second

// MaxResponseBytes bounds how much of an authority response is read.
const MaxResponseBytes = 4 << 20

// Client wraps an http.Client with throttling and per-call deadlines.
// One Client per source instance; the throttle state is synchronized so
// a client shared across workers still honors its interval.
type Client struct {
	http      *http.Client
	throttle  *Throttle
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithMinInterval sets the minimum spacing between requests.
func WithMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.throttle = NewThrottle(interval)
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTTPClient replaces the underlying http.Client. Test hook.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		throttle:  NewThrottle(0),
		userAgent: "nomina/1.0 (entity reconciliation)",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON performs a throttled GET and decodes the JSON response body
// into out. The source name is carried into error values so the caller
// can attribute failures.
func (c *Client) GetJSON(ctx context.Context, source, rawURL string, params url.Values, out any) error {
	if err := c.throttle.Wait(ctx); err != nil {
		return errors.WrapSource(source, 0, err)
	}

	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.WrapSource(source, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewTimeoutError("search", c.http.Timeout.String(), source+" did not respond")
		}
		return errors.WrapSource(source, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewSourceError(source, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return errors.WrapSource(source, 0, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapParse(source, "json", err)
	}
	return nil
}
