package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, TelemetryNone, cfg.Telemetry)
	assert.Equal(t, "pg_fdw", cfg.ServiceName)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PGFDW_LOG_LEVEL", "TRACE")
	t.Setenv("PGFDW_LOG_JSON", "true")
	t.Setenv("PGFDW_TELEMETRY", "otlp")
	t.Setenv("PGFDW_OTLP_ENDPOINT", "collector:4317")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, TelemetryOTLP, cfg.Telemetry)
	assert.Equal(t, "collector:4317", cfg.OTLPEndpoint)
}

func TestLoadInvalidTelemetry(t *testing.T) {
	t.Setenv("PGFDW_TELEMETRY", "jaeger")

	_, err := Load()
	assert.ErrorContains(t, err, "PGFDW_TELEMETRY")
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fdw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nservice_name: orders_fdw\n"), 0o600))
	t.Setenv("PGFDW_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "orders_fdw", cfg.ServiceName)
}
