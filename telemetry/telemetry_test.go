package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext stands in for testing.T.Context, which needs Go 1.24+: it
// returns a context canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	cfg := LoadConfigFromEnv("test")

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, defaultServiceVersion, cfg.ServiceVersion)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "lockstate-test")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "2s")

	cfg := LoadConfigFromEnv("dev")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "lockstate-test", cfg.ServiceName)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestInitializeDisabled(t *testing.T) {
	require.NoError(t, Initialize(testContext(t), &Config{Enabled: false}))
	require.NoError(t, Initialize(testContext(t), &Config{Enabled: true, Endpoint: ""}))
	require.NoError(t, ShutdownTracing(testContext(t)))
}
