// Package config loads transition pacing from YAML: the default progress
// duration and frame interval, per-edge duration overrides, and the guard
// delays that debounce flapping signals. Durations are written as Go duration
// strings ("200ms", "1s").
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amp-labs/lockstate/keyguard"
)

// Validation errors.
var (
	// ErrBadDuration indicates a duration string that does not parse.
	ErrBadDuration = errors.New("invalid duration")
	// ErrUnknownState indicates an edge naming a state outside the closed set.
	ErrUnknownState = errors.New("unknown keyguard state")
	// ErrDuplicateEdge indicates the same from/to pair configured twice.
	ErrDuplicateEdge = errors.New("duplicate edge")
	// ErrNegativeDelay indicates a negative guard delay or duration.
	ErrNegativeDelay = errors.New("durations must not be negative")
)

// Built-in pacing, used when no file is provided.
const (
	defaultDuration       = 300 * time.Millisecond
	defaultFrame          = 16 * time.Millisecond
	defaultAltBouncerHide = 200 * time.Millisecond
	defaultDreamEnd       = 100 * time.Millisecond
)

type edge struct {
	from keyguard.State
	to   keyguard.State
}

// Config is the resolved pacing configuration.
type Config struct {
	// DefaultDuration paces any edge without an override.
	DefaultDuration time.Duration
	// FrameInterval spaces Running steps.
	FrameInterval time.Duration
	// AlternateBouncerHideDelay is how long the alternate bouncer must stay
	// hidden before the transition out of it fires.
	AlternateBouncerHideDelay time.Duration
	// DreamEndDelay is how long the dream flag must stay false before the
	// transition out of Dreaming fires.
	DreamEndDelay time.Duration

	edges map[edge]time.Duration
}

// Default returns the built-in pacing.
func Default() *Config {
	return &Config{
		DefaultDuration:           defaultDuration,
		FrameInterval:             defaultFrame,
		AlternateBouncerHideDelay: defaultAltBouncerHide,
		DreamEndDelay:             defaultDreamEnd,
		edges:                     map[edge]time.Duration{},
	}
}

// ModeFor returns the progress mode for a from/to edge, applying any
// per-edge override.
func (c *Config) ModeFor(from, to keyguard.State) keyguard.ProgressMode {
	duration := c.DefaultDuration
	if override, ok := c.edges[edge{from: from, to: to}]; ok {
		duration = override
	}

	return keyguard.ProgressMode{
		Duration:      duration,
		FrameInterval: c.FrameInterval,
	}
}

// SetEdgeDuration overrides the duration of one edge. Used by tests and
// embedders that build configuration programmatically.
func (c *Config) SetEdgeDuration(from, to keyguard.State, d time.Duration) {
	if c.edges == nil {
		c.edges = map[edge]time.Duration{}
	}

	c.edges[edge{from: from, to: to}] = d
}

// file is the YAML shape. Durations are strings so the file reads naturally.
type file struct {
	DefaultDuration string     `yaml:"defaultDuration"`
	FrameInterval   string     `yaml:"frameInterval"`
	Edges           []fileEdge `yaml:"edges"`
	Guards          fileGuards `yaml:"guards"`
}

type fileEdge struct {
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Duration string `yaml:"duration"`
}

type fileGuards struct {
	AlternateBouncerHide string `yaml:"alternateBouncerHide"`
	DreamEnd             string `yaml:"dreamEnd"`
}

// Load reads and validates a YAML pacing file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(raw)
}

// LoadFromEnv loads the file named by LOCKSTATE_CONFIG, or the built-in
// defaults when the variable is unset.
func LoadFromEnv() (*Config, error) {
	path, ok := os.LookupEnv("LOCKSTATE_CONFIG")
	if !ok || path == "" {
		return Default(), nil
	}

	return Load(path)
}

// Parse parses and validates YAML pacing data.
func Parse(raw []byte) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := Default()

	var err error

	if cfg.DefaultDuration, err = overrideDuration(f.DefaultDuration, cfg.DefaultDuration); err != nil {
		return nil, fmt.Errorf("defaultDuration: %w", err)
	}

	if cfg.FrameInterval, err = overrideDuration(f.FrameInterval, cfg.FrameInterval); err != nil {
		return nil, fmt.Errorf("frameInterval: %w", err)
	}

	if cfg.AlternateBouncerHideDelay, err = overrideDuration(
		f.Guards.AlternateBouncerHide, cfg.AlternateBouncerHideDelay); err != nil {
		return nil, fmt.Errorf("guards.alternateBouncerHide: %w", err)
	}

	if cfg.DreamEndDelay, err = overrideDuration(f.Guards.DreamEnd, cfg.DreamEndDelay); err != nil {
		return nil, fmt.Errorf("guards.dreamEnd: %w", err)
	}

	for _, e := range f.Edges {
		from := keyguard.State(e.From)
		to := keyguard.State(e.To)

		if !from.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownState, e.From)
		}

		if !to.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownState, e.To)
		}

		key := edge{from: from, to: to}
		if _, dup := cfg.edges[key]; dup {
			return nil, fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, from, to)
		}

		d, err := overrideDuration(e.Duration, cfg.DefaultDuration)
		if err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", from, to, err)
		}

		cfg.edges[key] = d
	}

	return cfg, nil
}

func overrideDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadDuration, raw)
	}

	if d < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNegativeDelay, raw)
	}

	return d, nil
}
