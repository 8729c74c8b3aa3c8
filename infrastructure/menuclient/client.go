// Package menuclient is an HTTP client for the menu API. A Client is the
// Source behind a management session.
package menuclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gdp-poc/gdp/domain/menu"
	"github.com/gdp-poc/gdp/infrastructure/api/v1/dto"
	"github.com/gdp-poc/gdp/internal/config"
)

// UserHeader carries the calling user's identity.
const UserHeader = "X-Forwarded-Email"

const defaultRetryDelay = 500 * time.Millisecond

// Option configures a Client.
type Option func(*Client)

// WithUser sets the identity sent with every request.
func WithUser(user string) Option {
	return func(c *Client) { c.user = user }
}

// WithTimeout bounds each request, including retries.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries sets how many times a failed read is retried and the delay
// before the first retry.
func WithRetries(n int, delay time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.retryDelay = delay
	}
}

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client talks to a menu server.
type Client struct {
	baseURL    string
	user       string
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	transport  http.RoundTripper
	logger     *slog.Logger
	http       *http.Client
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    config.DefaultRemoteTimeout,
		retries:    config.DefaultRemoteMaxRetries,
		retryDelay: defaultRetryDelay,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = &http.Client{
		Timeout:   c.timeout,
		Transport: NewRetryTransport(c.transport, c.retries+1, c.retryDelay),
	}
	return c
}

// NewFromConfig creates a Client from remote settings. Later options
// override the configuration.
func NewFromConfig(cfg config.RemoteConfig, opts ...Option) *Client {
	base := []Option{
		WithUser(cfg.User()),
		WithTimeout(cfg.Timeout()),
		WithRetries(cfg.MaxRetries(), defaultRetryDelay),
	}
	return New(cfg.ServerURL(), append(base, opts...)...)
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string { return c.baseURL }

// User returns the identity sent with requests.
func (c *Client) User() string { return c.user }

// Health fetches the server health.
func (c *Client) Health(ctx context.Context) (dto.HealthResponse, error) {
	var resp dto.HealthResponse
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &resp)
	return resp, err
}

// Structure fetches the menu tree visible to the user.
func (c *Client) Structure(ctx context.Context) (menu.Tree, error) {
	var resp dto.StructureResponse
	if err := c.do(ctx, http.MethodGet, "/api/menu/structure", nil, &resp); err != nil {
		return menu.Tree{}, err
	}
	return dto.ToTree(resp.MenuGroups), nil
}

// Replace sends the whole tree as a batch update. It is never retried.
func (c *Client) Replace(ctx context.Context, t menu.Tree) error {
	body := dto.BatchUpdateRequest{MenuGroups: dto.FromTree(t)}
	var resp dto.StatusResponse
	if err := c.do(ctx, http.MethodPost, "/api/menu/structure/batch-update", body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return newStatusError(http.StatusOK, nil)
	}
	c.logger.Debug("menu saved", slog.String("message", resp.Message))
	return nil
}

// List fetches the route-based menu.
func (c *Client) List(ctx context.Context) ([]menu.LegacyGroup, error) {
	var resp dto.LegacyListResponse
	if err := c.do(ctx, http.MethodGet, "/api/menu/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Display fetches how a page is shown.
func (c *Client) Display(ctx context.Context, pageID string) (dto.DisplayResponse, error) {
	var resp dto.DisplayResponse
	err := c.do(ctx, http.MethodGet, "/api/menu/pages/"+url.PathEscape(pageID)+"/display", nil, &resp)
	return resp, err
}

// Load implements session.Source.
func (c *Client) Load(ctx context.Context) (menu.Tree, error) {
	return c.Structure(ctx)
}

// Save implements session.Source.
func (c *Client) Save(ctx context.Context, t menu.Tree) error {
	return c.Replace(ctx, t)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		req.Header.Set(UserHeader, c.user)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("menu request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return classify(method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return classify(method, path, err)
	}

	c.logger.Debug("menu request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %w", method, path, newStatusError(resp.StatusCode, data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: decode response: %w", ErrUnresponsive, method, path, err)
	}
	return nil
}

// classify wraps a transport failure in its failure class.
func classify(method, path string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s %s: %w", ErrUnresponsive, method, path, err)
	}
	return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
}
