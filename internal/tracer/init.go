package tracer

import (
	"context"

	"smart-product-be/internal/config"
	"smart-product-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// InitTracer installs an OTLP HTTP exporter (Jaeger compatible) as the global
// tracer provider and returns its shutdown function. Tracing is off unless
// OTEL_ENABLED=true; the returned function is then a no-op.
func InitTracer(ctx context.Context, cfg *config.Config, log logger.ILogger) func(context.Context) error {
	if !cfg.App.OtelEnabled {
		log.Debug("tracer", "OpenTelemetry tracing is disabled (set OTEL_ENABLED=true to enable)", nil)
		return func(context.Context) error { return nil }
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.App.OtelEndpoint),
		otlptracehttp.WithInsecure(), // Use HTTP, not HTTPS for local Jaeger
	)
	if err != nil {
		log.Warn("tracer", "failed to create OTLP exporter, tracing disabled", map[string]interface{}{"error": err})
		return func(context.Context) error { return nil }
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("smart-product-recommender"),
			semconv.ServiceVersionKey.String(config.AppVersion),
		)),
	)

	otel.SetTracerProvider(tp)
	log.Info("tracer", "OpenTelemetry tracer initialized", map[string]interface{}{"endpoint": cfg.App.OtelEndpoint})

	return tp.Shutdown
}
