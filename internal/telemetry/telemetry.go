// Package telemetry wires OpenTelemetry tracing around simulation batches and
// replicas. Tracing is opt-in: without an OTLP endpoint every span is a no-op.
package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/dwsim/internal/dynamics"
)

const (
	// ServiceName identifies the simulator in exported traces.
	ServiceName = "dwsim"
	// InstrumentationName names the tracer.
	InstrumentationName = "github.com/agbru/dwsim"

	// EndpointEnv holds the OTLP/HTTP collector URL.
	EndpointEnv = "DWSIM_OTEL_ENDPOINT"
	// EnabledEnv set to "false" disables tracing even with an endpoint.
	EnabledEnv = "DWSIM_OTEL_ENABLED"
)

// Setup installs a global tracer provider exporting to the endpoint named by
// DWSIM_OTEL_ENDPOINT. Without an endpoint it installs nothing and returns a
// no-op shutdown function. The returned function flushes pending spans.
func Setup(ctx context.Context) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnabledEnv), "false") {
		return noop, nil
	}
	endpoint := os.Getenv(EndpointEnv)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(ServiceName)))
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer starts the spans of a dwsim invocation.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer backed by provider, or by the global provider
// when provider is nil.
func NewTracer(provider trace.TracerProvider) *Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: provider.Tracer(InstrumentationName)}
}

// ParamAttributes returns the simulation parameters as span attributes.
func ParamAttributes(cfg dynamics.Config) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("dwsim.n", cfg.Agents),
		attribute.Int("dwsim.m", cfg.PairsPerStep),
		attribute.Float64("dwsim.eps", cfg.Epsilon),
		attribute.Int("dwsim.t_max", cfg.Steps),
		attribute.Float64("dwsim.mu", cfg.Mu),
	}
}

// StartBatch opens the span covering every replica of an invocation.
func (t *Tracer) StartBatch(ctx context.Context, cfg dynamics.Config, runs int) (context.Context, trace.Span) {
	attrs := append(ParamAttributes(cfg), attribute.Int("dwsim.runs", runs))
	return t.tracer.Start(ctx, "dwsim.batch", trace.WithAttributes(attrs...))
}

// StartRun opens the span of a single replica.
func (t *Tracer) StartRun(ctx context.Context, runID string, index int, seed uint64) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "dwsim.run", trace.WithAttributes(
		attribute.String("dwsim.run_id", runID),
		attribute.Int("dwsim.run_index", index),
		attribute.Int64("dwsim.seed", int64(seed)),
	))
}

// EndRun records the outcome of a replica and ends its span.
func EndRun(span trace.Span, clusters, updates int, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.Int("dwsim.clusters", clusters),
			attribute.Int("dwsim.updates", updates),
		)
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
