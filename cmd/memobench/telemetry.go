package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// telemetry owns the providers handed to every tableized workload.
type telemetry struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
}

func writerFor(name string) (io.Writer, error) {
	switch name {
	case "stdout":
		return os.Stdout, nil
	case "none":
		return io.Discard, nil
	default:
		return nil, fmt.Errorf("unknown exporter: %q", name)
	}
}

func newTelemetry(metricsExporter, traceExporter string) (*telemetry, error) {
	res := resource.NewSchemaless(attribute.String("service.name", "memobench"))

	mw, err := writerFor(metricsExporter)
	if err != nil {
		return nil, err
	}
	mexp, err := stdoutmetric.New(stdoutmetric.WithWriter(mw))
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(mexp)),
	)

	tw, err := writerFor(traceExporter)
	if err != nil {
		return nil, err
	}
	texp, err := stdouttrace.New(stdouttrace.WithWriter(tw))
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(texp),
	)

	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)
	return &telemetry{meterProvider: mp, tracerProvider: tp}, nil
}

// Shutdown flushes both providers and returns every error encountered.
func (t *telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
}
