package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "DB_DRIVER", "GRPC_PORT", "HTTP_PORT", "CACHE_ENABLED", "CACHE_TTL", "CORS_ALLOWED_ORIGINS", "CONFIG_FILE", "GRPC_RECOVERY_ENABLED", "GRPC_MAX_RECV_BYTES"} {
		t.Setenv(k, "")
	}

	cfg := LoadFromEnv()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 22, cfg.Gauge.Radius)
	assert.Equal(t, []string{"#93a2b3", "#f5b635"}, cfg.Gauge.Colors)
	assert.True(t, cfg.GRPCRecoveryEnabled)
	assert.Equal(t, 4<<20, cfg.GRPCMaxRecvBytes)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "9000")
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("HTTP_RATE_LIMIT", "2.5")
	t.Setenv("GRPC_RECOVERY_ENABLED", "false")
	t.Setenv("GRPC_MAX_RECV_BYTES", "1048576")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := LoadFromEnv()

	assert.Equal(t, 9000, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort, "unparsable values fall back")
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2.5, cfg.HTTPRateLimit)
	assert.False(t, cfg.GRPCRecoveryEnabled)
	assert.Equal(t, 1<<20, cfg.GRPCMaxRecvBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestApplyYAML(t *testing.T) {
	cfg := LoadFromEnv()

	err := cfg.ApplyYAML([]byte(`
gauge:
  radius: 40
  colors: ["#000000", "#ffffff"]
  duration: 750ms
http:
  rate_burst: 5
`))
	require.NoError(t, err)

	opts := cfg.GaugeOptions()
	assert.Equal(t, 40, opts.Radius)
	assert.Equal(t, 3, opts.Width, "unset keys keep their defaults")
	assert.Equal(t, [2]string{"#000000", "#ffffff"}, opts.Colors)
	assert.Equal(t, 750*time.Millisecond, opts.Duration)
	assert.Equal(t, 5, cfg.HTTPRateBurst)
}

func TestApplyYAML_Errors(t *testing.T) {
	cfg := LoadFromEnv()

	assert.ErrorContains(t, cfg.ApplyYAML([]byte("gauge: [")), "parse config file")
	assert.ErrorContains(t, cfg.ApplyYAML([]byte("gauge:\n  colors: [\"#fff\"]\n")), "exactly 2 entries")
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gauge:\n  width: 6\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Gauge.Width)

	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.ErrorContains(t, err, "read config file")
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := NewLogger(&Config{AppEnv: env})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
