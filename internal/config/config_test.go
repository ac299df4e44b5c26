// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesDefaults(t *testing.T) {
	cfg, err := LoadBytes([]byte("input:\n  path: hotels.csv\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 3, cfg.Pipeline.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Detection.PrecheckTimeout.Std())
	assert.Equal(t, 30*time.Second, cfg.Detection.NavTimeout.Std())
	assert.Equal(t, 1500*time.Millisecond, cfg.Detection.SettleDelay.Std())
	assert.Equal(t, 10, cfg.Detection.MaxButtons)
	assert.Equal(t, "stayscout.db", cfg.Output.StorePath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadBytesDurationStrings(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
input:
  path: hotels.csv
detection:
  nav_timeout: 20s
  settle_delay: 750ms
`))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, cfg.Detection.NavTimeout.Std())
	assert.Equal(t, 750*time.Millisecond, cfg.Detection.SettleDelay.Std())
}

func TestLoadBytesEnvExpansion(t *testing.T) {
	t.Setenv("TEST_STORE_PATH", "/tmp/leads.db")
	cfg, err := LoadBytes([]byte(`
input:
  path: hotels.csv
output:
  store_path: ${TEST_STORE_PATH}
`))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/leads.db", cfg.Output.StorePath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing input path",
			mutate:  func(c *Config) { c.Input.Path = "" },
			wantErr: "input.path is required",
		},
		{
			name:    "negative limit",
			mutate:  func(c *Config) { c.Input.Limit = -1 },
			wantErr: "input.limit cannot be negative",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Pipeline.Concurrency = 0 },
			wantErr: "pipeline.concurrency must be at least 1",
		},
		{
			name: "retry timeout longer than first attempt",
			mutate: func(c *Config) {
				c.Detection.NavTimeout = Duration(5 * time.Second)
				c.Detection.NavRetryTimeout = Duration(10 * time.Second)
			},
			wantErr: "nav_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Input.Path = "hotels.csv"
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateMongoDefaults(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
input:
  path: hotels.csv
output:
  mongo_uri: mongodb://localhost:27017
`))
	require.NoError(t, err)
	assert.Equal(t, "stayscout", cfg.Output.MongoDatabase)
	assert.Equal(t, "leads", cfg.Output.MongoCollection)
}
