// Package telemetry sets up OpenTelemetry trace and log export over OTLP/HTTP.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amp-labs/amp-flux/logger"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	defaultServiceVersion = "1.0.0"
	defaultTimeout        = 5 * time.Second
)

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// Endpoint is the collector base URL. Empty uses the OTLP default
	// (localhost:4318) or the standard OTEL_EXPORTER_OTLP_* variables.
	Endpoint string
	Enabled  bool
	Timeout  time.Duration
}

// Provider owns the trace and log pipelines. The zero Provider (telemetry
// disabled) is valid and does nothing.
type Provider struct {
	traces  *sdktrace.TracerProvider
	logs    *sdklog.LoggerProvider
	handler slog.Handler
}

// Initialize builds the exporters and installs them as the global tracer
// and logger providers. When cfg.Enabled is false it returns an empty
// Provider.
func Initialize(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		logger.Get(ctx).Info("OpenTelemetry is disabled")

		return &Provider{}, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = logger.GetSubsystem(ctx)
	}

	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = defaultServiceVersion
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceOpts := []otlptracehttp.Option{otlptracehttp.WithTimeout(cfg.Timeout)}
	logOpts := []otlploghttp.Option{otlploghttp.WithTimeout(cfg.Timeout)}

	if cfg.Endpoint != "" {
		traceOpts = append(traceOpts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
		logOpts = append(logOpts, otlploghttp.WithEndpointURL(cfg.Endpoint))
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	logExporter, err := otlploghttp.New(ctx, logOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	p := &Provider{
		traces: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		),
		logs: sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
			sdklog.WithResource(res),
		),
	}

	p.handler = otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(p.logs))

	otel.SetTracerProvider(p.traces)
	global.SetLoggerProvider(p.logs)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Get(ctx).Info("OpenTelemetry initialized",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"endpoint", cfg.Endpoint)

	return p, nil
}

// Enabled reports whether exporters are running.
func (p *Provider) Enabled() bool {
	return p != nil && p.traces != nil
}

// LogHandler returns the slog handler that forwards records to the log
// exporter, or nil when telemetry is disabled. Pass it to
// logger.Options.Handlers.
func (p *Provider) LogHandler() slog.Handler { //nolint:ireturn
	if p == nil {
		return nil
	}

	return p.handler
}

// Shutdown flushes and stops both pipelines.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}

	logger.Get(ctx).Info("Shutting down OpenTelemetry providers")

	return errors.Join(p.traces.Shutdown(ctx), p.logs.Shutdown(ctx))
}
