package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultMaxBodyBytes bounds how much of a response body is read.
const DefaultMaxBodyBytes = 4 << 20

// Client performs outbound JSON requests.
type Client struct {
	http         *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTransport sets the RoundTripper of the underlying *http.Client.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		if rt != nil {
			c.http.Transport = rt
		}
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
// GitHub rejects requests without one.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodyBytes bounds the response body size.
func WithMaxBodyBytes(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client. Without options it uses a dedicated
// *http.Client with a 10 second timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:         &http.Client{Timeout: 10 * time.Second},
		userAgent:    "fetchview",
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       slog.Default().With("component", "fetch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON issues a GET for req and decodes a 2xx JSON body into into.
// The returned error is one of *InvalidRequestError, *TransportError,
// *HTTPError or *DecodeError.
func (c *Client) GetJSON(ctx context.Context, req Request, into any) error {
	if err := req.Validate(); err != nil {
		return err
	}

	target := req.URL()
	logURL := req.RedactedURL()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &TransportError{URL: logURL, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &TransportError{URL: logURL, Err: scrubURLError(err, logURL)}
	}
	defer resp.Body.Close()

	c.logger.Debug("fetch response",
		"request", req.Name(),
		"url", logURL,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body is ignored.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &HTTPError{URL: logURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return &TransportError{URL: logURL, Err: err}
	}
	if int64(len(body)) > c.maxBodyBytes {
		return &DecodeError{URL: logURL, Err: fmt.Errorf("body exceeds %d bytes", c.maxBodyBytes)}
	}
	switch trimmed := bytes.TrimSpace(body); {
	case len(trimmed) == 0:
		return &DecodeError{URL: logURL, Err: errors.New("empty body")}
	case bytes.Equal(trimmed, []byte("null")):
		return &DecodeError{URL: logURL, Err: errors.New("null body")}
	}
	if err := json.Unmarshal(body, into); err != nil {
		return &DecodeError{URL: logURL, Err: err}
	}
	return nil
}

// JSON adapts c into a fetcher that decodes the response into a T.
func JSON[T any](c *Client) func(context.Context, Request) (T, error) {
	return func(ctx context.Context, req Request) (T, error) {
		var out T
		if err := c.GetJSON(ctx, req, &out); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	}
}

// scrubURLError replaces the URL inside a *url.Error, which would otherwise
// leak the API key into logs and user-facing messages.
func scrubURLError(err error, redacted string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s %q: %w", ue.Op, redacted, ue.Err)
	}
	return err
}
