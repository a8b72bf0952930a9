package purefn_test

import (
	"context"
	"testing"

	"github.com/on-the-ground/memo_ive_go/purefn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sumMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestTableize_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	var fib purefn.Tableized[func(int) int]
	fib = purefn.Must(purefn.TableizeI1O1(func(n int) int {
		if n < 2 {
			return n
		}
		return fib.Fn(n-1) + fib.Fn(n-2)
	}, purefn.WithName("fib"), purefn.WithMeterProvider(mp)))

	require.Equal(t, 55, fib.Fn(10))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(11), sumMetric(t, rm, "memo.misses"))
	assert.Equal(t, int64(8), sumMetric(t, rm, "memo.hits"))
	assert.Equal(t, int64(1), sumMetric(t, rm, "memo.clears"))
	assert.Zero(t, sumMetric(t, rm, "memo.failures"))

	stats := fib.Stats()
	assert.Equal(t, uint64(11), stats.Misses)
	assert.Equal(t, uint64(8), stats.Hits)
	assert.Equal(t, uint64(1), stats.Clears)
	assert.InDelta(t, 8.0/19.0, stats.HitRate(), 1e-9)
}

func TestTableize_OneSpanPerTopLevelCall(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var fib purefn.Tableized[func(int) int]
	fib = purefn.Must(purefn.TableizeI1O1(func(n int) int {
		if n < 2 {
			return n
		}
		return fib.Fn(n-1) + fib.Fn(n-2)
	}, purefn.WithName("fib"), purefn.WithTracerProvider(tp), purefn.WithLifetime(purefn.LifetimeProgram)))

	fib.Fn(15)
	fib.Fn(15)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	for i, span := range spans {
		assert.Equal(t, "memo.call", span.Name)
		attrs := attribute.NewSet(span.Attributes...)
		name, ok := attrs.Value("memo.name")
		require.True(t, ok)
		assert.Equal(t, "fib", name.AsString())
		id, ok := attrs.Value("memo.id")
		require.True(t, ok)
		assert.Equal(t, fib.ID(), id.AsString())
		hit, ok := attrs.Value("memo.hit")
		require.True(t, ok)
		assert.Equal(t, i == 1, hit.AsBool())
	}
}

func TestTableize_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	sum := purefn.Must(purefn.TableizeI1O1(func(xs []int) int {
		return len(xs)
	}, purefn.WithName("sum"), purefn.WithLogger(zap.New(core)), purefn.WithLifetime(purefn.LifetimeProgram)))

	created := logs.FilterMessage("tableized function").All()
	require.Len(t, created, 1)
	assert.Equal(t, "ref", created[0].ContextMap()["key_mode"])
	assert.Equal(t, "sum", created[0].ContextMap()["memo"])
	assert.Equal(t, sum.ID(), created[0].ContextMap()["memo_id"])

	downgraded := logs.FilterMessageSnippet("cleared per call").All()
	require.Len(t, downgraded, 1)
	assert.Equal(t, zap.InfoLevel, downgraded[0].Level)

	sum.Fn([]int{1})
	assert.Equal(t, 1, logs.FilterMessage("cache miss stored").Len())
	assert.Equal(t, 1, logs.FilterMessage("cache cleared").Len())
	assert.Equal(t, "top-level call returned", logs.FilterMessage("cache cleared").All()[0].ContextMap()["reason"])
}

func TestTableize_QuietLoggerSkipsDebug(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	square := purefn.Must(purefn.TableizeI1O1(func(n int) int {
		return n * n
	}, purefn.WithLogger(zap.New(core)), purefn.WithLifetime(purefn.LifetimeProgram)))

	square.Fn(3)
	square.Fn(3)
	assert.Zero(t, logs.Len())
}
