// Package container provides dependency injection for the reframe client.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"net/http"
	"time"

	"fjacquet/reframe-client/internal/apiclient"
	"fjacquet/reframe-client/internal/batch"
	"fjacquet/reframe-client/internal/catalog"
	"fjacquet/reframe-client/internal/config"
	"fjacquet/reframe-client/internal/interpreter"
	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/report"
	"fjacquet/reframe-client/internal/session"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	client      *apiclient.Client
	interpreter *interpreter.Interpreter
	catalog     *catalog.Catalog
	generator   *report.Generator
}

// Option customises container construction.
type Option func(*options)

type options struct {
	logger     logging.Logger
	httpClient *http.Client
}

// WithLogger uses logger instead of building one from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHTTPClient makes the API client use h.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	var clientOpts []apiclient.Option
	if o.httpClient != nil {
		clientOpts = append(clientOpts, apiclient.WithHTTPClient(o.httpClient))
	}
	client, err := apiclient.New(ClientConfig(cfg), logger, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	samples, err := catalog.Load(cfg.Samples.File, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load sample catalog: %w", err)
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldEndpoint, client.Endpoint()),
		logging.F("breaker", client.BreakerState()),
		logging.F("samples", len(samples.Keys())))

	return &Container{
		logger:      logger,
		config:      cfg,
		client:      client,
		interpreter: interpreter.New(logger),
		catalog:     samples,
		generator:   report.NewGenerator(logger),
	}, nil
}

// ClientConfig maps the api section of cfg to the API client settings.
func ClientConfig(cfg *config.Config) apiclient.Config {
	return apiclient.Config{
		Endpoint:         cfg.API.Endpoint,
		HealthPath:       cfg.API.HealthPath,
		Timeout:          time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		UserAgent:        cfg.API.UserAgent,
		MaxResponseBytes: cfg.API.MaxResponseBytes,
		Breaker: apiclient.BreakerConfig{
			Enabled:             cfg.API.Breaker.Enabled,
			ConsecutiveFailures: cfg.API.Breaker.ConsecutiveFailures,
			Timeout:             time.Duration(cfg.API.Breaker.OpenSeconds) * time.Second,
			MaxRequests:         cfg.API.Breaker.HalfOpenRequests,
		},
	}
}

// NewSession returns an idle session bound to the API client.
func (c *Container) NewSession() *session.Session {
	return session.New(c.client, c.interpreter, c.logger)
}

// BatchOptions returns the batch settings from the configuration.
func (c *Container) BatchOptions() batch.Options {
	return batch.Options{
		Concurrency:       c.config.Batch.Concurrency,
		RequestsPerSecond: c.config.Batch.RequestsPerSecond,
		Burst:             c.config.Batch.Burst,
		Extensions:        c.config.Batch.Extensions,
	}
}

// NewBatchProcessor returns a processor sharing the API client.
func (c *Container) NewBatchProcessor(opts batch.Options) *batch.Processor {
	return batch.NewProcessor(c.client, c.interpreter, opts, c.logger)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetClient returns the API client.
func (c *Container) GetClient() *apiclient.Client {
	return c.client
}

// GetCatalog returns the sample catalog.
func (c *Container) GetCatalog() *catalog.Catalog {
	return c.catalog
}

// GetGenerator returns the output renderer.
func (c *Container) GetGenerator() *report.Generator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
