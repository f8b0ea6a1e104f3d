// Package telemetry wires OpenTelemetry tracing for the process. The
// transition repository creates one span per transition instance through the
// global tracer provider this package installs.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/amp-labs/lockstate/logger"
)

const (
	defaultServiceVersion = "1.0.0"
	defaultTimeout        = 5 * time.Second
)

var tracerProvider *sdktrace.TracerProvider //nolint:gochecknoglobals

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Enabled        bool
	Timeout        time.Duration
}

// LoadConfigFromEnv reads tracing configuration from OTEL_* environment
// variables. Tracing is disabled unless OTEL_ENABLED is truthy.
func LoadConfigFromEnv(runningEnv string) *Config {
	enabled := false
	if raw, ok := os.LookupEnv("OTEL_ENABLED"); ok {
		if val, err := strconv.ParseBool(raw); err == nil {
			enabled = val
		}
	}

	name := os.Getenv("OTEL_SERVICE_NAME")
	if name == "" {
		name = logger.GetSubsystem(context.Background())
	}

	version := os.Getenv("OTEL_SERVICE_VERSION")
	if version == "" {
		version = defaultServiceVersion
	}

	timeout := defaultTimeout
	if raw, ok := os.LookupEnv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT"); ok {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	return &Config{
		ServiceName:    name,
		ServiceVersion: version,
		Environment:    runningEnv,
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"),
		Enabled:        enabled,
		Timeout:        timeout,
	}
}

// Initialize installs the global tracer provider. A disabled or
// endpoint-less config leaves the no-op provider in place.
func Initialize(ctx context.Context, config *Config) error {
	if !config.Enabled {
		slog.Info("tracing is disabled")

		return nil
	}

	if config.Endpoint == "" {
		slog.Warn("tracing endpoint not configured, tracing will be disabled")

		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Info("tracing initialized",
		"service", config.ServiceName,
		"endpoint", config.Endpoint)

	return nil
}

// ShutdownTracing flushes and stops the tracer provider, if one was
// installed.
func ShutdownTracing(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}

	if err := tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}

	return nil
}
