package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte("provider:\n  type: static\n"))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 5000, c.Server.Port)
	assert.Equal(t, 5*time.Second, c.Refresh.Interval)
	assert.Equal(t, 4, c.Provider.MaxConcurrency)
	assert.Equal(t, 12*time.Hour, c.Provider.YearStartTTL)
	assert.Equal(t, "portfolio.json", c.Portfolio.File)
	assert.Equal(t, "portfolio_data.csv", c.Sinks.CSV.Path)
	assert.True(t, c.Sinks.Terminal)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.Equal(t, "https://finnhub.io/api/v1", c.Finnhub.BaseURL)
}

func TestParseKeepsExplicitValues(t *testing.T) {
	doc := `
environment: production
refresh:
  interval: 30s
provider:
  type: finnhub
  max_concurrency: 8
finnhub:
  api_key: secret
sinks:
  terminal: false
`
	c, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 30*time.Second, c.Refresh.Interval)
	assert.Equal(t, 8, c.Provider.MaxConcurrency)
	assert.False(t, c.Sinks.Terminal)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"finnhub without key", "provider:\n  type: finnhub\n"},
		{"unknown provider", "provider:\n  type: yahoo\n"},
		{"kafka without brokers", "provider:\n  type: static\nsinks:\n  kafka:\n    enabled: true\n"},
		{"bad log level", "provider:\n  type: static\nlog:\n  level: loud\n"},
		{"concurrency out of range", "provider:\n  type: static\n  max_concurrency: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte("provider:\n  type: static\n"))
	require.NoError(t, err)

	env := map[string]string{
		"FINNHUB_API_KEY":  "k",
		"PORTFOLIO_FILE":   "/tmp/p.json",
		"REFRESH_INTERVAL": "1m",
		"WATCHLIST":        "TSLA, NVDA,,GOOGL",
		"KAFKA_BROKERS":    "a:9092,b:9092",
	}
	require.NoError(t, c.applyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "k", c.Finnhub.APIKey)
	assert.Equal(t, "/tmp/p.json", c.Portfolio.File)
	assert.Equal(t, time.Minute, c.Refresh.Interval)
	assert.Equal(t, []string{"TSLA", "NVDA", "GOOGL"}, c.Watchlist.Symbols)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Sinks.Kafka.Brokers)

	env["REFRESH_INTERVAL"] = "soon"
	assert.Error(t, c.applyEnv(func(k string) string { return env[k] }))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  type: static\nserver:\n  port: 8081\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8081, c.Server.Port)
}

func TestLoadWithEnvAppliesOverridesBeforeValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  type: finnhub\n"), 0o644))

	t.Setenv("FINNHUB_API_KEY", "from-env")
	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Finnhub.APIKey)
}

func TestLoadWithEnvWithoutFile(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "k")
	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "finnhub", c.Provider.Type)
}
