package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amp-labs/lockstate/keyguard"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, 300*time.Millisecond, cfg.DefaultDuration)
	assert.Equal(t, 200*time.Millisecond, cfg.AlternateBouncerHideDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.DreamEndDelay)

	mode := cfg.ModeFor(keyguard.Lockscreen, keyguard.Bouncer)
	assert.Equal(t, cfg.DefaultDuration, mode.Duration)
	assert.Equal(t, cfg.FrameInterval, mode.FrameInterval)
}

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
defaultDuration: 250ms
frameInterval: 8ms
guards:
  alternateBouncerHide: 150ms
  dreamEnd: 50ms
edges:
  - from: LOCKSCREEN
    to: AOD
    duration: 1s
  - from: AOD
    to: LOCKSCREEN
`))
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.DefaultDuration)
	assert.Equal(t, 8*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 150*time.Millisecond, cfg.AlternateBouncerHideDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.DreamEndDelay)

	assert.Equal(t, time.Second, cfg.ModeFor(keyguard.Lockscreen, keyguard.AOD).Duration)
	// Edge without its own duration inherits the default.
	assert.Equal(t, 250*time.Millisecond, cfg.ModeFor(keyguard.AOD, keyguard.Lockscreen).Duration)
	// Unconfigured edge uses the default too.
	assert.Equal(t, 250*time.Millisecond, cfg.ModeFor(keyguard.Bouncer, keyguard.Gone).Duration)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "bad duration",
			yaml:    "defaultDuration: soon",
			wantErr: ErrBadDuration,
		},
		{
			name:    "negative duration",
			yaml:    "defaultDuration: -10ms",
			wantErr: ErrNegativeDelay,
		},
		{
			name:    "unknown state",
			yaml:    "edges:\n  - from: NOPE\n    to: GONE",
			wantErr: ErrUnknownState,
		},
		{
			name: "duplicate edge",
			yaml: "edges:\n" +
				"  - from: LOCKSCREEN\n    to: GONE\n" +
				"  - from: LOCKSCREEN\n    to: GONE\n",
			wantErr: ErrDuplicateEdge,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tc.yaml))
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSetEdgeDuration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.SetEdgeDuration(keyguard.Gone, keyguard.AOD, 42*time.Millisecond)

	assert.Equal(t, 42*time.Millisecond, cfg.ModeFor(keyguard.Gone, keyguard.AOD).Duration)
}

func TestLoadFromEnvDefault(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default().DefaultDuration, cfg.DefaultDuration)
}
