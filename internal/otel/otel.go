// Package otel provides OpenTelemetry integration for ChillMCP.
// When disabled, every tracer and meter is a no-op.
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	// TracerName is the instrumentation scope name for ChillMCP traces.
	TracerName = "chillmcp"
	// MeterName is the instrumentation scope name for ChillMCP metrics.
	MeterName = "chillmcp"

	ExporterStdout   = "stdout"
	ExporterOTLPHTTP = "otlp-http"
	ExporterNone     = "none"

	DefaultMetricInterval = time.Minute
	defaultOTLPEndpoint   = "localhost:4318"
)

// Config holds OTel configuration.
type Config struct {
	Enabled     bool
	Exporter    string // stdout (default), otlp-http or none
	Endpoint    string // host:port for otlp-http
	ServiceName string
	Version     string

	// MetricInterval is how often metrics are pushed to the exporter.
	MetricInterval time.Duration
}

// Provider hands out the tracer and meter used for tool calls. The SDK
// providers are nil when telemetry is disabled.
type Provider struct {
	Tracer trace.Tracer
	Meter  metric.Meter

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// Init sets up tracing and metrics for cfg. Spans are batched and metrics
// are read periodically, both into the exporter cfg names.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{
			Tracer: nooptrace.NewTracerProvider().Tracer(TracerName),
			Meter:  noop.NewMeterProvider().Meter(MeterName),
		}, nil
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	spans, readings, err := newExporters(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	interval := cfg.MetricInterval
	if interval <= 0 {
		interval = DefaultMetricInterval
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spans),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(readings, sdkmetric.WithInterval(interval))),
	)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return &Provider{
		Tracer: tp.Tracer(TracerName),
		Meter:  mp.Meter(MeterName),
		tp:     tp,
		mp:     mp,
	}, nil
}

// Enabled reports whether spans and metrics go anywhere.
func (p *Provider) Enabled() bool {
	return p.tp != nil
}

// ForceFlush exports pending spans and collects metrics right away.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return errors.Join(p.tp.ForceFlush(ctx), p.mp.ForceFlush(ctx))
}

// Shutdown flushes and stops both pipelines.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return errors.Join(p.tp.Shutdown(ctx), p.mp.Shutdown(ctx))
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	name := cfg.ServiceName
	if name == "" {
		name = "chillmcp"
	}
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(name),
			attribute.String("chillmcp.version", cfg.Version),
		),
	)
}

// newExporters returns the span and metric exporters for cfg.Exporter.
func newExporters(ctx context.Context, cfg Config) (sdktrace.SpanExporter, sdkmetric.Exporter, error) {
	switch cfg.Exporter {
	case ExporterStdout, "":
		// stdout is the MCP channel.
		return writerExporters(stderr, true)
	case ExporterNone:
		return writerExporters(io.Discard, false)
	case ExporterOTLPHTTP:
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultOTLPEndpoint
		}
		spans, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, nil, err
		}
		readings, err := otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
		if err != nil {
			return nil, nil, err
		}
		return spans, readings, nil
	default:
		return nil, nil, fmt.Errorf("unknown exporter %q (supported: %s, %s, %s)",
			cfg.Exporter, ExporterStdout, ExporterOTLPHTTP, ExporterNone)
	}
}

func writerExporters(w io.Writer, pretty bool) (sdktrace.SpanExporter, sdkmetric.Exporter, error) {
	traceOpts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	metricOpts := []stdoutmetric.Option{stdoutmetric.WithWriter(w)}
	if pretty {
		traceOpts = append(traceOpts, stdouttrace.WithPrettyPrint())
		metricOpts = append(metricOpts, stdoutmetric.WithPrettyPrint())
	}
	spans, err := stdouttrace.New(traceOpts...)
	if err != nil {
		return nil, nil, err
	}
	readings, err := stdoutmetric.New(metricOpts...)
	if err != nil {
		return nil, nil, err
	}
	return spans, readings, nil
}
