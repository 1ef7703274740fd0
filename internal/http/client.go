package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"
)

// Common errors.
var (
	ErrInvalidURL       = errors.New("http: invalid url")
	ErrNotFound         = errors.New("http: resource not found")
	ErrForbidden        = errors.New("http: access forbidden")
	ErrUnauthorized     = errors.New("http: unauthorized")
	ErrMethodNotAllowed = errors.New("http: method not allowed")
	ErrServerError      = errors.New("http: server error")
)

// StatusError is returned for non-success status codes that have no
// dedicated sentinel.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http: unexpected status code: %d", e.StatusCode)
}

// Options configures the HTTP client.
type Options struct {
	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 16
	MaxIdleConnsPerHost int

	// Timeout bounds each request including reading the body.
	// Zero means no timeout, which suits long streams.
	Timeout time.Duration

	// RetryAttempts is the maximum number of retry attempts.
	// Default: 3
	RetryAttempts int

	// RetryBackoff is the initial backoff duration.
	// Default: 500ms
	RetryBackoff time.Duration

	// RetryMaxBackoff is the maximum backoff duration.
	// Default: 10s
	RetryMaxBackoff time.Duration

	// ReadBufferSize is the size of chunks yielded by Stream.
	// Default: 32KiB
	ReadBufferSize int
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxIdleConnsPerHost: 16,
		RetryAttempts:       3,
		RetryBackoff:        500 * time.Millisecond,
		RetryMaxBackoff:     10 * time.Second,
		ReadBufferSize:      32 * 1024,
	}
}

// Client performs the requests needed to probe and stream resources.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = 32 * 1024
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  true, // Content-Length must describe the bytes we stream
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// NewClientWithHTTP wraps an existing *http.Client, e.g. one carrying an
// authenticating transport.
func NewClientWithHTTP(client *http.Client, opts Options) *Client {
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = 32 * 1024
	}
	return &Client{client: client, opts: opts}
}

// Head performs a HEAD request. The returned response has its body closed.
func (c *Client) Head(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	resp, err := c.do(ctx, http.MethodHead, rawURL, header)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}

// ProbeGet performs a GET request and cancels it as soon as the response
// headers have been received, so the body is never downloaded. The returned
// response has its body closed.
func (c *Client) ProbeGet(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, rawURL, header)
	if err != nil {
		return nil, err
	}
	cancel()
	resp.Body.Close()
	return resp, nil
}

// Stream returns a lazy sequence of the resource's body bytes. The request
// is issued when iteration starts; stopping early closes the body. Errors
// are yielded once, after which the sequence ends.
func (c *Client) Stream(ctx context.Context, rawURL string, header http.Header) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		resp, err := c.do(ctx, http.MethodGet, rawURL, header)
		if err != nil {
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		buf := make([]byte, c.opts.ReadBufferSize)
		for {
			n, readErr := resp.Body.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if !yield(chunk, nil) {
					return
				}
			}
			if readErr == io.EOF {
				return
			}
			if readErr != nil {
				yield(nil, fmt.Errorf("read %s: %w", rawURL, readErr))
				return
			}
		}
	}
}

// do issues a request, retrying network errors and 5xx responses. On
// success the caller owns the response body.
func (c *Client) do(ctx context.Context, method, rawURL string, header http.Header) (*http.Response, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	var lastErr error

	for attempt := 0; attempt <= c.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("%w: %s %s: %s", ErrServerError, method, rawURL, resp.Status)
			continue
		}

		if err := checkStatusCode(resp.StatusCode); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
		}

		return resp, nil
	}

	return nil, fmt.Errorf("%s request failed after %d attempts: %w", method, c.opts.RetryAttempts+1, lastErr)
}

// backoff waits for an exponentially increasing duration with jitter.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.opts.RetryBackoff * time.Duration(1<<uint(attempt-1))
	if backoff > c.opts.RetryMaxBackoff {
		backoff = c.opts.RetryMaxBackoff
	}

	// Add jitter: 0.5 to 1.5 of backoff
	jitter := time.Duration(float64(backoff) * (0.5 + rand.Float64()))

	timer := time.NewTimer(jitter)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q: unsupported scheme", ErrInvalidURL, rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q: missing host", ErrInvalidURL, rawURL)
	}
	return nil
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusMethodNotAllowed:
		return ErrMethodNotAllowed
	default:
		return &StatusError{StatusCode: code}
	}
}
