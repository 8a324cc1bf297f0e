// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultEndpoint is the transformation service of a locally running Reframe API.
const DefaultEndpoint = "http://localhost:3000/reframe"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	API struct {
		Endpoint         string `mapstructure:"endpoint" yaml:"endpoint"`
		HealthPath       string `mapstructure:"health_path" yaml:"health_path"`
		TimeoutSeconds   int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		UserAgent        string `mapstructure:"user_agent" yaml:"user_agent"`
		MaxResponseBytes int64  `mapstructure:"max_response_bytes" yaml:"max_response_bytes"`

		Breaker struct {
			Enabled             bool   `mapstructure:"enabled" yaml:"enabled"`
			ConsecutiveFailures uint32 `mapstructure:"consecutive_failures" yaml:"consecutive_failures"`
			OpenSeconds         int    `mapstructure:"open_seconds" yaml:"open_seconds"`
			HalfOpenRequests    uint32 `mapstructure:"half_open_requests" yaml:"half_open_requests"`
		} `mapstructure:"breaker" yaml:"breaker"`
	} `mapstructure:"api" yaml:"api"`

	Batch struct {
		Concurrency       int      `mapstructure:"concurrency" yaml:"concurrency"`
		RequestsPerSecond float64  `mapstructure:"requests_per_second" yaml:"requests_per_second"`
		Burst             int      `mapstructure:"burst" yaml:"burst"`
		Extensions        []string `mapstructure:"extensions" yaml:"extensions"`
	} `mapstructure:"batch" yaml:"batch"`

	Samples struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"samples" yaml:"samples"`

	Output struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"output" yaml:"output"`
}

// Option adjusts the loader before the configuration is read.
type Option func(*loader) error

type loader struct {
	v          *viper.Viper
	configFile string
}

// WithConfigFile reads the given file instead of searching the standard locations.
func WithConfigFile(path string) Option {
	return func(l *loader) error {
		l.configFile = path
		return nil
	}
}

// WithFlag binds a command-line flag to a configuration key. The flag only takes
// precedence when it was set explicitly.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(l *loader) error {
		if flag == nil {
			return nil
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
		return nil
	}
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config.yaml, then REFRAME_* environment variables, then flags.
func InitializeConfig(opts ...Option) (*Config, error) {
	l := &loader{v: viper.New()}
	v := l.v

	// 1. Set defaults
	setDefaults(v)

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	// 2. Config file locations
	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.reframe-client")
		v.AddConfigPath(".reframe-client")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("REFRAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("api.endpoint", DefaultEndpoint)
	v.SetDefault("api.health_path", "/health")
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("api.user_agent", "reframe-client")
	v.SetDefault("api.max_response_bytes", 16<<20)
	v.SetDefault("api.breaker.enabled", false)
	v.SetDefault("api.breaker.consecutive_failures", 5)
	v.SetDefault("api.breaker.open_seconds", 30)
	v.SetDefault("api.breaker.half_open_requests", 1)

	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.requests_per_second", 5.0)
	v.SetDefault("batch.burst", 1)
	v.SetDefault("batch.extensions", []string{".txt", ".mt", ".fin"})

	v.SetDefault("samples.file", "")
	v.SetDefault("output.format", "text")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	endpoint, err := url.Parse(config.API.Endpoint)
	if err != nil || (endpoint.Scheme != "http" && endpoint.Scheme != "https") || endpoint.Host == "" {
		return fmt.Errorf("api.endpoint must be an absolute http(s) URL, got: %q", config.API.Endpoint)
	}

	if config.API.TimeoutSeconds < 1 || config.API.TimeoutSeconds > 300 {
		return fmt.Errorf("api.timeout_seconds must be between 1 and 300, got: %d", config.API.TimeoutSeconds)
	}

	if config.Batch.Concurrency < 1 || config.Batch.Concurrency > 64 {
		return fmt.Errorf("batch.concurrency must be between 1 and 64, got: %d", config.Batch.Concurrency)
	}

	if config.Batch.RequestsPerSecond <= 0 {
		return fmt.Errorf("batch.requests_per_second must be positive, got: %g", config.Batch.RequestsPerSecond)
	}

	if config.Batch.Burst < 1 {
		return fmt.Errorf("batch.burst must be at least 1, got: %d", config.Batch.Burst)
	}

	switch config.Output.Format {
	case "text", "json", "xml":
	default:
		return fmt.Errorf("invalid output format: %s (must be 'text', 'json' or 'xml')", config.Output.Format)
	}

	return nil
}
