package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/logger"
)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is a conservative sustained rate,
	// well below anything the backend enforces.
	DefaultRequestsPerSecond = 8.0
	DefaultBurstSize         = 10
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root, without trailing slash (required).
	BaseURL string

	// Credentials supplies the bearer token per request. Optional;
	// without it only the login endpoints are usable.
	Credentials driven.CredentialsStore

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Client is a rate-limited HTTP client for the dashboard backend.
type Client struct {
	client  *http.Client
	baseURL string
	creds   driven.CredentialsStore
	limiter *rate.Limiter
}

// errorResponse is the backend's error envelope.
type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// NewClient creates a new backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		creds:   cfg.Credentials,
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultBurstSize),
	}, nil
}

// token returns the stored bearer token, or "" when not signed in.
func (c *Client) token() string {
	if c.creds == nil {
		return ""
	}
	creds, err := c.creds.GetCredentials()
	if err != nil {
		return ""
	}
	return creds.AccessToken()
}

// doJSON sends one request and decodes the JSON response into out.
// A nil out discards the body. One retry after a 429, honouring
// Retry-After when the backend supplies it.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		delay := retryAfter(resp)
		resp.Body.Close()
		logger.Debug("backend: 429 on %s %s, retrying after %s", method, path, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if resp, err = c.send(ctx, method, path, query, body); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send builds and performs a single request attempt.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	return resp, nil
}

// statusError maps an HTTP failure to a domain error where one fits.
func (c *Client) statusError(status int, body []byte) error {
	var envelope errorResponse
	_ = json.Unmarshal(body, &envelope)
	detail := envelope.Detail
	if detail == "" {
		detail = envelope.Error
	}
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if detail != "" {
			return fmt.Errorf("%w: %s", domain.ErrAuthInvalid, detail)
		}
		return domain.ErrAuthInvalid
	case http.StatusNotFound:
		if detail != "" {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, detail)
		}
		return domain.ErrNotFound
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	default:
		if detail != "" {
			return fmt.Errorf("backend error (status %d): %s", status, detail)
		}
		return fmt.Errorf("backend error (status %d)", status)
	}
}

// retryAfter reads the Retry-After header, defaulting to one second.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second
}
