// Package clients provides the resilient HTTP client all external sync
// connectors call providers through: bearer-token auth, a fixed-attempt
// retry policy for rate limiting and transport failures, and structured
// handling of provider error bodies.
package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/oauth2"

	"github.com/ajitpratap0/recordsync/pkg/config"
	"github.com/ajitpratap0/recordsync/pkg/errors"
	jsonx "github.com/ajitpratap0/recordsync/pkg/json"
	"github.com/ajitpratap0/recordsync/pkg/logger"
	"github.com/ajitpratap0/recordsync/pkg/metrics"
)

// htmlErrorLimit caps how much of an HTML error page is kept for logs.
const htmlErrorLimit = 200

type contextKey string

// operationKey carries the metric/log operation name through the context.
const operationKey contextKey = "client_operation"

// WithOperation names the provider operation for metrics and logs on
// calls made with the returned context.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey, op)
}

func operationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey).(string); ok {
		return op
	}
	return "call"
}

// Response is the outcome of a successful provider call.
type Response struct {
	Status  int
	Success bool
	Header  http.Header
	Data    []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v interface{}) error {
	if err := jsonx.Unmarshal(r.Data, v); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to decode provider response")
	}
	return nil
}

// Location returns the Location response header.
func (r *Response) Location() string {
	return r.Header.Get("Location")
}

// Client is a bearer-authenticated HTTP client for one provider API.
//
// Requests that fail with HTTP 429 or a transport error are retried on
// the configured fixed-delay policy. Retrying is safe for idempotent
// verbs only; a retried POST after a network blip may create a duplicate
// row at the provider. That hazard is inherited from the providers'
// record-create APIs and is documented rather than worked around.
type Client struct {
	provider    string
	baseURL     string
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
	retry       *RetryPolicy
	logger      *zap.Logger
	userAgent   string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(rp *RetryPolicy) Option {
	return func(c *Client) { c.retry = rp }
}

// WithTokenSource replaces the token source, e.g. for refreshing tokens.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokenSource = ts }
}

// WithLogger replaces the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the given provider API. The access token is
// injected by the caller per invocation chain; an empty token fails fast
// with an authentication error, no retry.
func New(provider, baseURL, accessToken string, cfg *config.SyncConfig, opts ...Option) (*Client, error) {
	if accessToken == "" {
		return nil, errors.New(errors.ErrorTypeAuthentication, "access token is required")
	}
	if cfg == nil {
		cfg = config.DefaultSyncConfig()
	}

	c := &Client{
		provider:    provider,
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}),
		retry:       NewRetryPolicy(cfg.Reliability.RetryAttempts, cfg.Reliability.RetryDelay),
		logger:      logger.Get().With(zap.String("component", "http_client"), zap.String("provider", provider)),
		userAgent:   cfg.UserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = newHTTPClient(cfg, c.logger)
	}

	return c, nil
}

// newHTTPClient builds the transport with explicit timeouts.
func newHTTPClient(cfg *config.SyncConfig, log *zap.Logger) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeouts.Connection,
			KeepAlive: cfg.Timeouts.KeepAlive,
		}).DialContext,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       cfg.Timeouts.Idle,
		TLSHandshakeTimeout:   cfg.Timeouts.TLSHandshake,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		log.Warn("failed to configure HTTP/2", zap.Error(err))
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeouts.Request,
	}
}

// Call sends a JSON request to the provider. body is serialized as JSON
// when non-nil. Name the operation via WithOperation for metrics.
func (c *Client) Call(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = jsonx.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to marshal request body")
		}
	}
	return c.call(ctx, method, path, payload, "application/json")
}

// CallRaw sends an unmodified binary body with the given content type,
// e.g. a spreadsheet MIME payload.
func (c *Client) CallRaw(ctx context.Context, method, path string, body []byte, contentType string) (*Response, error) {
	return c.call(ctx, method, path, body, contentType)
}

func (c *Client) call(ctx context.Context, method, path string, payload []byte, contentType string) (*Response, error) {
	op := operationFrom(ctx)
	url := c.resolveURL(path)

	var resp *Response
	var lastErr error
	attempt := 0

	err := c.retry.Execute(ctx, func() error {
		attempt++
		if attempt > 1 {
			reason := "transport"
			if errors.IsType(lastErr, errors.ErrorTypeRateLimit) {
				reason = "rate_limit"
			}
			metrics.RetriesTotal.WithLabelValues(c.provider, reason).Inc()
			c.logger.Warn("retrying provider call",
				zap.String("operation", op),
				zap.String("reason", reason),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.retry.MaxAttempts))
		}

		r, err := c.doOnce(ctx, method, url, payload, contentType, op)
		if err != nil {
			lastErr = err
			return err
		}
		resp = r
		return nil
	})

	if err != nil {
		if errors.IsType(err, errors.ErrorTypeRateLimit) && attempt >= c.retry.MaxAttempts {
			return nil, errors.Wrap(err, errors.ErrorTypeRateLimit,
				fmt.Sprintf("rate limit exceeded after %d attempts", attempt))
		}
		return nil, err
	}
	return resp, nil
}

// doOnce performs one HTTP attempt.
func (c *Client) doOnce(ctx context.Context, method, url string, payload []byte, contentType, op string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create HTTP request")
	}

	tok, err := c.tokenSource.Token()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeAuthentication, "failed to obtain access token")
	}
	tok.SetAuthHeader(req)

	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues(c.provider, op))
	httpResp, err := c.httpClient.Do(req)
	timer.ObserveDuration()

	if err != nil {
		metrics.RequestsTotal.WithLabelValues(c.provider, op, "error").Inc()
		return nil, errors.Wrap(err, errors.ErrorTypeTransport, "HTTP request failed")
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(c.provider, op, "error").Inc()
		return nil, errors.Wrap(err, errors.ErrorTypeTransport, "failed to read response body")
	}

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		metrics.RequestsTotal.WithLabelValues(c.provider, op, "rate_limited").Inc()
		return nil, errors.Newf(errors.ErrorTypeRateLimit, "provider rate limited request").
			WithDetail("status", httpResp.StatusCode)

	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		metrics.RequestsTotal.WithLabelValues(c.provider, op, "error").Inc()
		return nil, errors.Newf(errors.ErrorTypeAuthentication, "provider rejected credentials (status %d)", httpResp.StatusCode).
			WithDetail("status", httpResp.StatusCode).
			WithDetail("body", errorBody(httpResp.Header.Get("Content-Type"), data))

	case httpResp.StatusCode < 200 || httpResp.StatusCode >= 300:
		metrics.RequestsTotal.WithLabelValues(c.provider, op, "error").Inc()
		return nil, errors.Newf(errors.ErrorTypeProvider, "provider returned status %d", httpResp.StatusCode).
			WithDetail("status", httpResp.StatusCode).
			WithDetail("body", errorBody(httpResp.Header.Get("Content-Type"), data))
	}

	metrics.RequestsTotal.WithLabelValues(c.provider, op, "success").Inc()

	return &Response{
		Status:  httpResp.StatusCode,
		Success: true,
		Header:  httpResp.Header,
		Data:    data,
	}, nil
}

// errorBody normalizes a provider error body for logs. HTML pages are
// reduced to a structured snippet so callers never JSON-parse them;
// JSON bodies pass through as-is.
func errorBody(contentType string, data []byte) string {
	trimmed := strings.TrimSpace(string(data))
	if strings.Contains(contentType, "text/html") || strings.HasPrefix(trimmed, "<") {
		if len(trimmed) > htmlErrorLimit {
			trimmed = trimmed[:htmlErrorLimit]
		}
		structured, _ := jsonx.Marshal(map[string]string{
			"error":   "provider returned HTML error page",
			"details": trimmed,
		})
		return string(structured)
	}
	return trimmed
}

func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Provider returns the provider name this client serves.
func (c *Client) Provider() string { return c.provider }
