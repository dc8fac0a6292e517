package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
	serviceErrs "github.com/arcaneplugins/levelledmobs/pkg/errors"
)

// Client talks to the levelledmobs admin API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxTries   uint
}

type Option func(*Client)

func WithToken(jwt string) Option {
	return func(c *Client) {
		c.token = jwt
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithMaxTries bounds the attempts of idempotent requests.
func WithMaxTries(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxTries:   3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetQueue returns the queue status
// GET /api/v1/queue
func (c *Client) GetQueue(ctx context.Context) (*v1.QueueStatus, error) {
	var status v1.QueueStatus
	if err := c.retry(ctx, http.MethodGet, "/queue", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListRestarts returns the newest worker restarts
// GET /api/v1/queue/restarts
func (c *Client) ListRestarts(ctx context.Context, limit uint64) (*v1.WorkerRestartList, error) {
	path := "/queue/restarts"
	if limit > 0 {
		queryFrag, err := runtime.StyleParamWithLocation("form", true, "limit", runtime.ParamLocationQuery, limit)
		if err != nil {
			return nil, err
		}
		path += "?" + queryFrag
	}

	var list v1.WorkerRestartList
	if err := c.retry(ctx, http.MethodGet, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ClearQueue drops every pending item and returns how many were dropped
// DELETE /api/v1/queue
func (c *Client) ClearQueue(ctx context.Context) (int, error) {
	var resp v1.ClearResponse
	if err := c.do(ctx, http.MethodDelete, "/queue", &resp); err != nil {
		return 0, err
	}
	return resp.Cleared, nil
}

// retry runs an idempotent request with exponential backoff. Client errors are not retried.
func (c *Client) retry(ctx context.Context, method, path string, out any) error {
	op := func() (struct{}, error) {
		err := c.do(ctx, method, path, out)
		var se *statusError
		if errors.As(err, &se) && se.code < http.StatusInternalServerError {
			return struct{}{}, backoff.Permanent(err)
		}
		if serviceErrs.IsUnauthorizedError(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond

	_, err := backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(c.maxTries))
	return err
}

type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.code, e.message)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	zap.S().Named("client").Debugw("request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return serviceErrs.NewUnauthorizedError(errorMessage(body, resp.Status))
	case resp.StatusCode >= 300:
		return &statusError{code: resp.StatusCode, message: errorMessage(body, resp.Status)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte, fallback string) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return fallback
}
