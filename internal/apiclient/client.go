// Package apiclient is the HTTP transport to the Reframe transformation service.
package apiclient

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

	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/models"

	"github.com/sony/gobreaker"
)

const (
	// RequestIDHeader carries the submission identifier to the service.
	RequestIDHeader = "X-Request-ID"

	defaultTimeout          = 30 * time.Second
	defaultMaxResponseBytes = 16 << 20
	defaultHealthPath       = "/health"
)

var (
	// ErrBreakerOpen is returned when the circuit breaker rejects a call.
	ErrBreakerOpen = errors.New("circuit breaker is open")
	// ErrResponseTooLarge is returned when a response body exceeds MaxResponseBytes.
	ErrResponseTooLarge = errors.New("response body too large")
)

// Config describes how to reach the service.
type Config struct {
	Endpoint         string
	HealthPath       string
	Timeout          time.Duration
	UserAgent        string
	MaxResponseBytes int64
	Breaker          BreakerConfig
}

// BreakerConfig configures the optional circuit breaker. It trips on transport
// failures only; HTTP error statuses are valid responses.
type BreakerConfig struct {
	Enabled             bool
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// Response is what the service answered, whatever the status.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
}

// HealthStatus is the body of the service's health endpoint.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Healthy reports whether the service declared itself healthy.
func (h HealthStatus) Healthy() bool {
	return strings.EqualFold(h.Status, "healthy") || strings.EqualFold(h.Status, "ok")
}

// Client talks to the transformation service.
type Client struct {
	cfg        Config
	endpoint   *url.URL
	healthURL  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     logging.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its timeout is left as given.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New validates cfg and builds a Client.
func New(cfg Config, logger logging.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	if (endpoint.Scheme != "http" && endpoint.Scheme != "https") || endpoint.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: an absolute http(s) URL is required", cfg.Endpoint)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = defaultMaxResponseBytes
	}
	if cfg.HealthPath == "" {
		cfg.HealthPath = defaultHealthPath
	}
	health, err := url.Parse(cfg.HealthPath)
	if err != nil {
		return nil, fmt.Errorf("invalid health path %q: %w", cfg.HealthPath, err)
	}

	c := &Client{
		cfg:        cfg,
		endpoint:   endpoint,
		healthURL:  endpoint.ResolveReference(health).String(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.WithField(logging.FieldEndpoint, endpoint.String()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker, c.logger)
	}
	return c, nil
}

// Endpoint returns the transformation endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Transform posts the raw message as text/plain. Any HTTP status is returned as a
// Response; an error means no response was received at all.
func (c *Client) Transform(ctx context.Context, req models.TransformRequest) (*Response, error) {
	res, err := c.guard(func() (interface{}, error) {
		return c.post(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Response), nil
}

func (c *Client) post(ctx context.Context, req models.TransformRequest) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), strings.NewReader(req.RawMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/plain")
	if req.ID != "" {
		httpReq.Header.Set(RequestIDHeader, req.ID)
	}
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	log := c.logger.WithField(logging.FieldRequestID, req.ID)
	log.Debug("Posting message to transformation service", logging.F("bytes", len(req.RawMessage)))

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close response body")
		}
	}()

	body, err := readLimited(resp.Body, c.cfg.MaxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	elapsed := time.Since(start)
	log.Debug("Received response",
		logging.F(logging.FieldStatusCode, resp.StatusCode),
		logging.F(logging.FieldDuration, elapsed.Milliseconds()))

	return &Response{StatusCode: resp.StatusCode, Body: string(body), Duration: elapsed}, nil
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("health check returned status: %d", resp.StatusCode)
	}

	var status HealthStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes)).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &status, nil
}

// readLimited reads r in full, failing rather than truncating past limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, limit)
	}
	return data, nil
}

// HealthURL returns the resolved health endpoint.
func (c *Client) HealthURL() string {
	return c.healthURL
}
