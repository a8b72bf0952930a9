package purefn

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/on-the-ground/memo_ive_go/purefn"

// Stats is a snapshot of a memo's counters.
type Stats struct {
	Hits     uint64
	Misses   uint64
	Failures uint64
	Bypasses uint64
	Clears   uint64
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type counters struct {
	hits, misses, failures, bypasses, clears atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Failures: c.failures.Load(),
		Bypasses: c.bypasses.Load(),
		Clears:   c.clears.Load(),
	}
}

// instruments records memo activity to OpenTelemetry.
type instruments struct {
	hits     metric.Int64Counter
	misses   metric.Int64Counter
	failures metric.Int64Counter
	clears   metric.Int64Counter
	compute  metric.Float64Histogram
	attrs    metric.MeasurementOption

	tracer    trace.Tracer
	spanAttrs []attribute.KeyValue
}

func newInstruments(mp metric.MeterProvider, tp trace.TracerProvider, id, name string) (*instruments, error) {
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}
	if tp == nil {
		tp = tracenoop.NewTracerProvider()
	}
	meter := mp.Meter(instrumentationName)

	hits, err := meter.Int64Counter(
		"memo.hits",
		metric.WithDescription("Number of calls answered from the cache"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}
	misses, err := meter.Int64Counter(
		"memo.misses",
		metric.WithDescription("Number of calls that ran the underlying function"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(
		"memo.failures",
		metric.WithDescription("Number of computations that returned an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}
	clears, err := meter.Int64Counter(
		"memo.clears",
		metric.WithDescription("Number of times the cache was emptied"),
		metric.WithUnit("{clear}"),
	)
	if err != nil {
		return nil, err
	}
	compute, err := meter.Float64Histogram(
		"memo.compute.duration_ms",
		metric.WithDescription("Duration of the underlying function on a miss"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	attrs := []attribute.KeyValue{
		attribute.String("memo.id", id),
		attribute.String("memo.name", name),
	}
	return &instruments{
		hits:      hits,
		misses:    misses,
		failures:  failures,
		clears:    clears,
		compute:   compute,
		attrs:     metric.WithAttributes(attrs...),
		tracer:    tp.Tracer(instrumentationName),
		spanAttrs: attrs,
	}, nil
}

func (in *instruments) recordHit() {
	in.hits.Add(context.Background(), 1, in.attrs)
}

func (in *instruments) recordMiss(elapsed time.Duration, err error) {
	ctx := context.Background()
	in.misses.Add(ctx, 1, in.attrs)
	in.compute.Record(ctx, float64(elapsed.Microseconds())/1000, in.attrs)
	if err != nil {
		in.failures.Add(ctx, 1, in.attrs)
	}
}

func (in *instruments) recordClear() {
	in.clears.Add(context.Background(), 1, in.attrs)
}

// startCall opens the span for a top-level call.
func (in *instruments) startCall() trace.Span {
	_, span := in.tracer.Start(context.Background(), "memo.call", trace.WithAttributes(in.spanAttrs...))
	return span
}

func endCall(span trace.Span, hit bool, err error) {
	span.SetAttributes(attribute.Bool("memo.hit", hit))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
