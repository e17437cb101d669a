package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultMaxRetries is the default number of attempts for a request.
const DefaultMaxRetries = 3

// DefaultRetryWait is the default initial wait between retries.
const DefaultRetryWait = 1 * time.Second

// maxRetryAfter caps how long a Retry-After header can stall a lookup.
const maxRetryAfter = 30 * time.Second

// Client performs read-only lookups against an external service, retrying
// transient failures with exponential backoff.
type Client struct {
	client      *http.Client
	baseURL     string
	serviceName string
	accept      string
	maxRetries  int
	retryWait   time.Duration
	logger      *slog.Logger

	// beforeRequest is called before each request (for auth headers, etc.)
	beforeRequest func(req *http.Request)
}

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	Client      *http.Client
	BaseURL     string
	ServiceName string

	// Accept is sent as the Accept header. Defaults to application/json.
	Accept string

	// Timeout bounds each attempt. Ignored when Client is set.
	Timeout time.Duration

	// MaxRetries is the total number of attempts, including the first.
	MaxRetries int
	RetryWait  time.Duration

	Logger        *slog.Logger
	BeforeRequest func(req *http.Request)
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:        cfg.Client,
		baseURL:       cfg.BaseURL,
		serviceName:   cfg.ServiceName,
		accept:        cfg.Accept,
		maxRetries:    cfg.MaxRetries,
		retryWait:     cfg.RetryWait,
		logger:        cfg.Logger,
		beforeRequest: cfg.BeforeRequest,
	}

	if c.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if c.accept == "" {
		c.accept = "application/json"
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.retryWait <= 0 {
		c.retryWait = DefaultRetryWait
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// ServiceName returns the name used in errors and logs.
func (c *Client) ServiceName() string {
	return c.serviceName
}

// Request executes a GET-style request with retries for transient errors.
// Network failures that survive every attempt are returned as *RequestError.
// A retryable status on the final attempt is returned as a response so the
// caller can classify it.
func (c *Client) Request(ctx context.Context, method, path string) (*http.Response, error) {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Accept", c.accept)

		// Apply auth headers via callback
		if c.beforeRequest != nil {
			c.beforeRequest(req)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = &RequestError{Service: c.serviceName, Endpoint: path, Attempts: attempt + 1, Err: err}
			if attempt < c.maxRetries-1 {
				wait := c.retryWait * time.Duration(1<<attempt)
				c.logger.Warn("request failed, retrying",
					"service", c.serviceName,
					"endpoint", path,
					"attempt", attempt+1,
					"wait", wait,
					"error", err,
				)
				if err := sleep(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}
			return nil, lastErr
		}

		if shouldRetry(resp) && attempt < c.maxRetries-1 {
			wait := c.getRetryWait(resp, attempt)
			c.logger.Warn("retryable status, retrying",
				"service", c.serviceName,
				"endpoint", path,
				"status", resp.StatusCode,
				"attempt", attempt+1,
				"wait", wait,
			)
			resp.Body.Close()
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// Get performs a GET request and decodes the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	resp, err := c.Request(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.parseError(resp, path)
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s response: %w", c.serviceName, err)
	}

	return nil
}

// GetRaw performs a GET request and returns the raw response body.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.Request(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.parseError(resp, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", c.serviceName, err)
	}
	return body, nil
}

// parseError parses an error response into an APIError, or a
// RateLimitError when the service is still throttling after every attempt.
func (c *Client) parseError(resp *http.Response, path string) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Service: c.serviceName, RetryAfter: retryAfter(resp)}
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{
		Service:    c.serviceName,
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}

	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			apiErr.Message = errResp.Message
		} else if errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

// getRetryWait calculates the wait time for a retry.
func (c *Client) getRetryWait(resp *http.Response, attempt int) time.Duration {
	if wait := retryAfter(resp); wait > 0 {
		return min(wait, maxRetryAfter)
	}

	// Exponential backoff
	return c.retryWait * time.Duration(1<<attempt)
}

// retryAfter returns the Retry-After delay in seconds form, or zero.
func retryAfter(resp *http.Response) time.Duration {
	if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

// shouldRetry reports whether a response status is worth another attempt.
func shouldRetry(resp *http.Response) bool {
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
