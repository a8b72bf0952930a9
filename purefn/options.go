package purefn

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option configures a tableized function.
type Option func(*settings)

type settings struct {
	name           string
	cfg            Config
	params         []Param
	logger         *zap.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

func newSettings(opts []Option) settings {
	s := settings{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// WithName names the memoized function in logs, metrics and traces.
// Defaults to the Go function name.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithConfig replaces all modes at once, typically with the result of
// ParseConfig or ConfigFromMap.
func WithConfig(cfg Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

func WithKeyMode(m KeyMode) Option {
	return func(s *settings) { s.cfg.KeyMode = m }
}

func WithThreadMode(m ThreadMode) Option {
	return func(s *settings) { s.cfg.ThreadMode = m }
}

func WithLifetime(m LifetimeMode) Option {
	return func(s *settings) { s.cfg.Lifetime = m }
}

// WithMaxEntries bounds the table size. The table keeps two generations and
// drops the older one when the newer one reaches n entries.
func WithMaxEntries(n int) Option {
	return func(s *settings) { s.cfg.MaxEntries = n }
}

// WithParams describes the parameters explicitly. Without it, parameters are
// inferred from their types.
func WithParams(params ...Param) Option {
	return func(s *settings) { s.params = params }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithMeterProvider enables hit, miss and compute metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *settings) { s.meterProvider = mp }
}

// WithTracerProvider enables one span per top-level call.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) { s.tracerProvider = tp }
}
