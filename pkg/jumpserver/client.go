// Package jumpserver provides a signed client for the JumpServer REST API.
package jumpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/apperrors"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/config"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/logging"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/metrics"
)

// DefaultTimeout is the maximum time to wait for JumpServer responses.
const DefaultTimeout = 30 * time.Second

// Request describes one JumpServer API call.
type Request struct {
	Method string
	// Path is relative to the configured base path; a missing leading slash is added.
	Path string
	// Query entries with empty values are dropped.
	Query map[string]string
	// Body is JSON-encoded when non-nil.
	Body any
	// OrgID overrides the configured default organization.
	OrgID string
}

// Response is a successful (2xx) JumpServer response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType, "application/json")
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithClock replaces time.Now for the Date header.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithMetrics records every call in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client performs signed calls against the JumpServer API.
// It holds only read-only configuration and is safe for concurrent use.
type Client struct {
	cfg        config.JumpServerConfig
	httpClient *http.Client
	now        func() time.Time
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewClient creates a new JumpServer client. Configuration is not validated here:
// each call validates it and fails with apperrors.ErrConfiguration before any I/O.
func NewClient(cfg config.JumpServerConfig, logger *zap.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now:    time.Now,
		logger: logger.Named("jumpserver"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends one signed request. Non-2xx responses are returned as *apperrors.APIError.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if r.Method == "" {
		r.Method = http.MethodGet
	}

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	apiPath := normalizeAPIPath(r.Path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveAPIRequest(r.Method, apiPath, 0, time.Since(start))
		c.logger.Error("JumpServer request failed",
			zap.String("method", r.Method),
			zap.String("path", apiPath),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("failed to call JumpServer: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	duration := time.Since(start)
	c.metrics.ObserveAPIRequest(r.Method, apiPath, resp.StatusCode, duration)

	result := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apperrors.APIError{StatusCode: resp.StatusCode, Body: errorBodyText(result)}
		c.logger.Error("JumpServer returned error",
			zap.String("method", r.Method),
			zap.String("path", apiPath),
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.SanitizeBody(apiErr.Body)))
		return nil, apiErr
	}

	c.logger.Debug("JumpServer request completed",
		zap.String("method", r.Method),
		zap.String("path", apiPath),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration))

	return result, nil
}

// DoJSON sends a request and decodes a JSON response into out.
// A non-JSON success response leaves out untouched; JumpServer sometimes answers with
// an HTML page, and callers treat the missing fields like any other incomplete answer.
func (c *Client) DoJSON(ctx context.Context, r Request, out any) error {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if !resp.IsJSON() {
		c.logger.Warn("JumpServer returned non-JSON response",
			zap.String("path", normalizeAPIPath(r.Path)),
			zap.String("content_type", resp.ContentType))
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// newRequest validates configuration and builds the signed *http.Request.
func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	if err := c.cfg.ValidateEndpoint(); err != nil {
		return nil, err
	}
	orgID, err := c.cfg.ResolveOrgID(r.OrgID)
	if err != nil {
		return nil, err
	}
	if err := c.cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JUMPSERVER_BASE_URL: %v", apperrors.ErrConfiguration, err)
	}

	pathWithQuery := buildPathWithQuery(c.cfg.BasePath, r.Path, r.Query)
	target, err := url.Parse(pathWithQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	// pathWithQuery is absolute, so any path on the base URL is replaced
	endpoint := base.ResolveReference(target)

	var payload io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, endpoint.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	date := c.now().UTC().Format(http.TimeFormat)
	signer := NewSigner(c.cfg.AccessKeyID, c.cfg.AccessKeySecret)

	req.Header.Set("Accept", acceptJSON)
	req.Header.Set("Date", date)
	req.Header.Set("Authorization", signer.Authorization(r.Method, pathWithQuery, date))
	req.Header.Set("X-JMS-ORG", orgID)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// errorBodyText returns the body for an API error message, compacting JSON bodies.
func errorBodyText(resp *Response) string {
	if resp.IsJSON() {
		var buf bytes.Buffer
		if err := json.Compact(&buf, resp.Body); err == nil {
			return buf.String()
		}
	}
	return string(resp.Body)
}
