package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLoggingWithOptions(t *testing.T) {
	var buf bytes.Buffer

	lg := ConfigureLoggingWithOptions(Options{
		Subsystem: "test-subsystem",
		JSON:      true,
		MinLevel:  slog.LevelDebug,
		Output:    &buf,
	})

	require.NotNil(t, lg)

	Get(context.Background()).Info("hello")

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"subsystem":"test-subsystem"`)
}

func TestWithValues(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "test",
		Output:    &buf,
	})

	ctx := With(context.Background(), "transition", "LOCKSCREEN->BOUNCER")
	Get(ctx).Info("step")

	assert.Contains(t, buf.String(), "LOCKSCREEN->BOUNCER")
}

func TestMutedContextDiscardsOutput(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "test",
		Output:    &buf,
	})

	ctx := WithMuted(context.Background(), true)
	Get(ctx).Error("should not appear")

	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestSubsystemOverride(t *testing.T) {
	ConfigureLoggingWithOptions(Options{Subsystem: "default-sub", Output: &bytes.Buffer{}})

	assert.Equal(t, "default-sub", GetSubsystem(context.Background()))

	ctx := WithSubsystem(context.Background(), "other")
	assert.Equal(t, "other", GetSubsystem(ctx))
}

func TestGetNilContext(t *testing.T) {
	assert.NotNil(t, Get())
	assert.NotNil(t, Get(nil)) //nolint:staticcheck
}
