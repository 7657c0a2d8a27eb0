package instrument

import (
	"context"
	"fmt"
	"log"

	"github.com/turbot/pg-fdw/config"
	"github.com/turbot/pg-fdw/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "pg_fdw"

// InitTracing installs a global TracerProvider exporting to the configured
// OTLP endpoint. When telemetry is disabled the global no-op provider is left
// in place and the returned shutdown function does nothing.
func InitTracing(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if cfg.Telemetry != config.TelemetryOTLP {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(version.VersionString),
		)),
	)
	otel.SetTracerProvider(tp)
	log.Printf("[INFO] tracing enabled, exporting to %s", cfg.OTLPEndpoint)

	return func(ctx context.Context) error {
		if err := tp.ForceFlush(ctx); err != nil {
			log.Printf("[WARN] failed to flush traces: %s", err)
		}
		return tp.Shutdown(ctx)
	}, nil
}

func GetTracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartSessionSpan starts the span covering one scan or modify session.
func StartSessionSpan(ctx context.Context, name, callID, relation string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, name)
	span.SetAttributes(
		attribute.String("call_id", callID),
		attribute.String("relation", relation),
	)
	return ctx, span
}
