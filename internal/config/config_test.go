package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	err := os.WriteFile(path, []byte(`
dsn: postgres://localhost/test
order_api:
  address: http://orders.local
  timeout: 3s
  breaker:
    max_failures: 2
notice:
  language: en
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/test", cfg.DSN)
	assert.Equal(t, "http://orders.local", cfg.OrderAPI.Address)
	assert.Equal(t, 3*time.Second, cfg.OrderAPI.Timeout)
	assert.Equal(t, uint32(2), cfg.OrderAPI.Breaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.OrderAPI.Breaker.OpenTimeout)
	assert.Equal(t, "en", cfg.Notice.Language)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 14, cfg.PasswordHashCost)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("order_api:\n  timeout: 3s\n"), 0o600))

	t.Setenv("ORDER_API_TIMEOUT", "750ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.OrderAPI.Timeout)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("ORDER_API_ADDRESS", "http://10.0.0.1:9000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.1:9000", cfg.OrderAPI.Address)
	assert.Equal(t, 10*time.Second, cfg.OrderAPI.Timeout)
	assert.Equal(t, "vi", cfg.Notice.Language)
}
