// Package apiclient dispatches JSON requests to the salon backend with the
// signed-in user's bearer token.
package apiclient

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
	"strings"
	"time"

	"golang.org/x/oauth2"

	apperrors "github.com/salonhub/salon-admin/internal/errors"
	"github.com/salonhub/salon-admin/internal/observability/metrics"
	"github.com/salonhub/salon-admin/internal/observability/statsd"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:4000/api"

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	BaseURL string
	// FallbackURLs are recorded for operators; no failover is attempted.
	FallbackURLs []string
	Timeout      time.Duration
	// Transport is the base round tripper; http.DefaultTransport when nil.
	Transport http.RoundTripper
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// Client is safe for concurrent use. WithToken derives request-scoped copies.
type Client struct {
	base      *url.URL
	timeout   time.Duration
	transport http.RoundTripper
	http      *http.Client
	metrics   statsd.Sink
	logger    *slog.Logger
}

// New builds a client for the configured base URL.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must be http or https", raw)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.FallbackURLs) > 0 {
		logger.Info("api fallback urls configured; failover is handled by deployment",
			"primary", base.String(), "fallbacks", opts.FallbackURLs)
	}

	return &Client{
		base:      base,
		timeout:   timeout,
		transport: transport,
		http:      &http.Client{Timeout: timeout, Transport: transport},
		metrics:   opts.Metrics,
		logger:    logger,
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.base.String() }

// WithToken returns a client that sends token as a bearer credential.
// An empty token yields an unauthenticated client; the backend decides.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	if token == "" {
		cp.http = &http.Client{Timeout: c.timeout, Transport: c.transport}
		return &cp
	}
	cp.http = &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.transport,
		},
	}
	return &cp
}

// Get decodes the JSON response of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the response into out (may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch sends body as JSON and decodes the response into out (may be nil).
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Put sends body as JSON and decodes the response into out (may be nil).
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Do performs one request. Non-2xx responses return *APIError; failures before
// a response return an *errors.AppError classified as timeout, canceled or
// unavailable.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	status, err := c.do(ctx, method, path, body, out)
	metrics.EmitBackendCall(c.metrics, metrics.BackendCall{
		Method:   method,
		Resource: resourceName(path),
		Status:   status,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.DebugContext(ctx, "backend request failed",
			"method", method, "path", path, "status", status, "error", err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	target, err := c.resolve(path)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build backend url")
	}

	var reader io.Reader
	if body != nil {
		buf, encErr := json.Marshal(body)
		if encErr != nil {
			return 0, apperrors.Wrap(encErr, apperrors.ErrCodeInternal, "encode request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create backend request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, apperrors.MapTransportError(fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, newAPIError(method, path, resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "decode %s response", resourceName(path))
	}
	return resp.StatusCode, nil
}

// resolve joins a relative path (optionally carrying a query) onto the base URL.
func (c *Client) resolve(path string) (string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	if rel.IsAbs() || rel.Host != "" {
		return "", fmt.Errorf("path %q must be relative", path)
	}
	u := c.base.JoinPath(rel.EscapedPath())
	u.RawQuery = rel.RawQuery
	return u.String(), nil
}

// resourceName is the first path segment, used to tag metrics.
func resourceName(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}
