package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fjacquet/reframe-client/internal/config"
	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.API.Endpoint = endpoint
	cfg.API.HealthPath = "/health"
	cfg.API.TimeoutSeconds = 5
	cfg.Batch.Concurrency = 3
	cfg.Batch.RequestsPerSecond = 7
	cfg.Batch.Burst = 2
	cfg.Batch.Extensions = []string{".txt"}
	cfg.Output.Format = "text"
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      nil,
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "valid config",
			config: testConfig("http://localhost:3000/reframe"),
		},
		{
			name:        "invalid endpoint",
			config:      testConfig("not a url"),
			expectError: true,
			errorMsg:    "failed to create API client",
		},
		{
			name: "missing sample catalog",
			config: func() *config.Config {
				cfg := testConfig("http://localhost:3000/reframe")
				cfg.Samples.File = "/nonexistent/samples.yaml"
				return cfg
			}(),
			expectError: true,
			errorMsg:    "failed to load sample catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.config, WithLogger(logging.NewMockLogger()))
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NotNil(t, c.GetLogger())
			assert.Same(t, tt.config, c.GetConfig())
			assert.NotNil(t, c.GetClient())
			assert.NotNil(t, c.GetGenerator())
			assert.Contains(t, c.GetCatalog().Keys(), "MT103")
			assert.NoError(t, c.Close())
		})
	}
}

func TestClientConfig(t *testing.T) {
	cfg := testConfig("https://api.example.com/reframe")
	cfg.API.Breaker.Enabled = true
	cfg.API.Breaker.ConsecutiveFailures = 4
	cfg.API.Breaker.OpenSeconds = 20
	cfg.API.Breaker.HalfOpenRequests = 2

	cc := ClientConfig(cfg)
	assert.Equal(t, "https://api.example.com/reframe", cc.Endpoint)
	assert.Equal(t, 5*time.Second, cc.Timeout)
	assert.True(t, cc.Breaker.Enabled)
	assert.Equal(t, uint32(4), cc.Breaker.ConsecutiveFailures)
	assert.Equal(t, 20*time.Second, cc.Breaker.Timeout)
	assert.Equal(t, uint32(2), cc.Breaker.MaxRequests)
}

func TestBatchOptions(t *testing.T) {
	c, err := NewContainer(testConfig("http://localhost:3000/reframe"), WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	opts := c.BatchOptions()
	assert.Equal(t, 3, opts.Concurrency)
	assert.Equal(t, 7.0, opts.RequestsPerSecond)
	assert.Equal(t, 2, opts.Burst)
	assert.Equal(t, []string{".txt"}, opts.Extensions)
	assert.NotNil(t, c.NewBatchProcessor(opts))
}

func TestNewSession_UsesConfiguredEndpoint(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/reframe", r.URL.Path)
		_, _ = w.Write([]byte("<Doc><A>1</A></Doc>"))
	}))
	defer srv.Close()

	c, err := NewContainer(testConfig(srv.URL+"/reframe"), WithLogger(logging.NewMockLogger()), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	s := c.NewSession()
	outcome, err := s.Submit(context.Background(), "{4:\n:20:FT1\n-}")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
	assert.Equal(t, "<Doc>\n  <A>1</A>\n</Doc>", outcome.Documents()[0].Formatted)
	assert.Equal(t, session.Settled, s.Snapshot().State)
}
