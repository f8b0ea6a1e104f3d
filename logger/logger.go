// Package logger configures slog for the process and hands out loggers that
// carry context-scoped attributes. High-frequency paths (transition frame
// ticks) use muted contexts so they can keep their log calls without flooding
// the output.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
)

// subsystem is the process-wide component name stamped on every log line.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex serializes ConfigureLoggingWithOptions, which mutates the
// process-global slog and log defaults.
var configMutex sync.Mutex //nolint:gochecknoglobals

// contextKey is unexported to avoid collisions with other packages.
type contextKey string

const (
	mutedKey     contextKey = "muted"
	subsystemKey contextKey = "subsystem"
	valuesKey    contextKey = "values"
)

// Options configures logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer
}

// ConfigureLoggingWithOptions configures the default slog logger and
// redirects the legacy log package into it. Returns the configured logger.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{Level: opts.MinLevel})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{Level: opts.MinLevel})
	}

	lg := slog.New(handler)
	slog.SetDefault(lg)

	// Third-party packages may still log through the old log package.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return lg
}

// ConfigureLogging configures logging from the environment:
// LOG_JSON (bool), LOG_LEVEL (debug|info|warn|error), LOG_OUTPUT
// (stdout|stderr). Unset or unparsable values fall back to text/info/stdout.
func ConfigureLogging(app string) *slog.Logger {
	opts := Options{
		Subsystem:   app,
		JSON:        envBool("LOG_JSON"),
		MinLevel:    envLevel("LOG_LEVEL"),
		LegacyLevel: envLevel("LEGACY_LOG_LEVEL"),
		Output:      envOutput("LOG_OUTPUT"),
	}

	return ConfigureLoggingWithOptions(opts)
}

func envBool(key string) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return false
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}

	return val
}

func envLevel(key string) slog.Level {
	var level slog.Level

	raw, ok := os.LookupEnv(key)
	if !ok {
		return slog.LevelInfo
	}

	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func envOutput(key string) io.Writer {
	switch os.Getenv(key) {
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}

// WithMuted marks the context so loggers obtained from it discard all output.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, mutedKey, muted)
}

func isMuted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	muted, ok := ctx.Value(mutedKey).(bool)

	return ok && muted
}

// WithSubsystem overrides the process subsystem for loggers obtained from
// this context.
func WithSubsystem(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, subsystemKey, name)
}

// GetSubsystem returns the context's subsystem override, or the process
// default set by ConfigureLogging.
func GetSubsystem(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	if name, ok := ctx.Value(subsystemKey).(string); ok {
		return name
	}

	if def, ok := subsystem.Load().(string); ok {
		return def
	}

	return ""
}

// With returns a context whose loggers carry the given slog key-value pairs.
func With(ctx context.Context, values ...any) context.Context {
	if len(values) == 0 && ctx != nil {
		return ctx
	}

	if ctx == nil {
		ctx = context.Background()
	}

	vals := append(getValues(ctx), values...)

	return context.WithValue(ctx, valuesKey, vals)
}

func getValues(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	vals, ok := ctx.Value(valuesKey).([]any)
	if !ok {
		return nil
	}

	return vals
}

// hostname is the pod name in a k8s deployment, the machine name elsewhere.
var hostname = sync.OnceValue(func() string { //nolint:gochecknoglobals
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return h
})

// Get returns a logger carrying the subsystem, host, and any values attached
// to the context via With. A nil or missing context is fine.
func Get(ctx ...context.Context) *slog.Logger {
	var realCtx context.Context

	for _, c := range ctx {
		if c != nil {
			realCtx = c

			break
		}
	}

	if realCtx == nil {
		realCtx = context.Background()
	}

	if isMuted(realCtx) {
		return nullLogger
	}

	lg := slog.Default().With(
		"subsystem", GetSubsystem(realCtx),
		"host", hostname())

	if vals := getValues(realCtx); vals != nil {
		lg = lg.With(vals...)
	}

	return lg
}

// nullHandler discards everything; it backs muted contexts.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler          { return n }
func (n *nullHandler) WithGroup(_ string) slog.Handler               { return n }

var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals
