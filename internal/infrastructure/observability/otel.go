// Package observability wires OpenTelemetry traces, metrics and logs.
//
// Exporters speak OTLP over gRPC and read the standard OTEL_EXPORTER_OTLP_*
// variables (endpoint, headers, insecure). Resource attributes come from
// OTEL_SERVICE_NAME and OTEL_RESOURCE_ATTRIBUTES.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// DefaultServiceName names the service when OTEL_SERVICE_NAME is not set.
const DefaultServiceName = "taskdesk"

const exportTimeout = 10 * time.Second

// Config holds observability configuration.
type Config struct {
	Enabled     bool
	ServiceName string
}

// Providers holds the installed providers and the process logger.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
	Logs   *log.LoggerProvider
	Logger *slog.Logger
}

// Shutdown flushes and stops every provider. All are attempted; errors are joined.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Tracer.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Logs.Shutdown(ctx),
	)
}

// Setup installs global tracer and meter providers and builds the logger.
// When disabled the providers record nothing and the logger writes JSON to stdout.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	return setup(ctx, cfg, os.Stdout)
}

func setup(ctx context.Context, cfg Config, stdout io.Writer) (*Providers, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}

	if !cfg.Enabled {
		p := &Providers{
			Tracer: sdktrace.NewTracerProvider(),
			Meter:  sdkmetric.NewMeterProvider(),
			Logs:   log.NewLoggerProvider(),
			Logger: slog.New(slog.NewJSONHandler(stdout, nil)),
		}
		otel.SetTracerProvider(p.Tracer)
		otel.SetMeterProvider(p.Meter)
		return p, nil
	}

	res, err := newResource(ctx, cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	// Exporters get a background context so a cancelled startup context
	// cannot wedge them during shutdown.
	traceExporter, err := otlptracegrpc.New(context.Background(), otlptracegrpc.WithTimeout(exportTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	metricExporter, err := otlpmetricgrpc.New(context.Background(), otlpmetricgrpc.WithTimeout(exportTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	logExporter, err := otlploggrpc.New(context.Background(), otlploggrpc.WithTimeout(exportTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create log exporter: %w", err)
	}

	p := &Providers{
		Tracer: sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(traceExporter, sdktrace.WithBatchTimeout(5*time.Second)),
		),
		Meter: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
				sdkmetric.WithInterval(15*time.Second))),
		),
		Logs: log.NewLoggerProvider(
			log.WithResource(res),
			log.WithProcessor(log.NewBatchProcessor(logExporter, log.WithExportTimeout(5*time.Second))),
		),
	}
	p.Logger = otelslog.NewLogger(cfg.ServiceName, otelslog.WithLoggerProvider(p.Logs))

	otel.SetTracerProvider(p.Tracer)
	otel.SetMeterProvider(p.Meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// newResource merges the SDK defaults with the service name and environment attributes.
// Partial resources and schema conflicts are tolerated; the result is still usable.
func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	serviceResource, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
		resource.WithFromEnv(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service resource: %w", err)
	}

	res, err := resource.Merge(resource.Default(), serviceResource)
	if err != nil {
		if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
			return res, nil
		}
		return nil, fmt.Errorf("failed to merge resources: %w", err)
	}
	return res, nil
}
