// Command memobench runs small recursive workloads through purefn under
// every key mode and reports hits, misses and executions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/on-the-ground/memo_ive_go/purefn"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type benchConfig struct {
	Modes   string
	Rounds  int
	Workers int
	Metrics string
	Trace   string
	Verbose bool
}

func parseFlags() benchConfig {
	cfg := benchConfig{}

	flag.StringVar(&cfg.Modes, "config", "", "Base memo config, e.g. \"lifetime=program, multi\"; the key mode is varied per run")
	flag.IntVar(&cfg.Rounds, "n", 3, "Top-level calls per workload")
	flag.IntVar(&cfg.Workers, "c", 4, "Goroutines for multi-mode workloads")
	flag.StringVar(&cfg.Metrics, "metrics", "none", "Metrics exporter: stdout, none")
	flag.StringVar(&cfg.Trace, "trace", "none", "Trace exporter: stdout, none")
	flag.BoolVar(&cfg.Verbose, "v", false, "Log every cache hit, miss and clear")

	flag.Parse()

	return cfg
}

func main() {
	cfg := parseFlags()

	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fail to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("memobench failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg benchConfig, logger *zap.Logger) error {
	base, err := purefn.ParseConfig(cfg.Modes)
	if err != nil {
		return err
	}

	tel, err := newTelemetry(cfg.Metrics, cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	for _, mode := range []purefn.KeyMode{purefn.KeyPtr, purefn.KeyRef, purefn.KeyVal} {
		mcfg := base
		mcfg.KeyMode = mode
		opts := []purefn.Option{
			purefn.WithConfig(mcfg),
			purefn.WithLogger(logger.Named("memo")),
			purefn.WithMeterProvider(tel.meterProvider),
			purefn.WithTracerProvider(tel.tracerProvider),
		}

		for _, w := range workloads {
			start := time.Now()
			result, executions, stats, err := w.run(opts, cfg.Rounds, cfg.Workers)
			if err != nil {
				return fmt.Errorf("%s with %s keys: %w", w.name, mode, err)
			}
			span := timespan.BetweenTimes(start, time.Now())

			logger.Info("workload finished",
				zap.String("workload", w.name),
				zap.String("key_mode", string(mode)),
				zap.String("thread_mode", string(mcfg.ThreadMode)),
				zap.String("lifetime", string(mcfg.Lifetime)),
				zap.String("result", result),
				zap.Int64("executions", executions),
				zap.Uint64("hits", stats.Hits),
				zap.Uint64("misses", stats.Misses),
				zap.Uint64("bypasses", stats.Bypasses),
				zap.Uint64("clears", stats.Clears),
				zap.Float64("hit_rate", stats.HitRate()),
				zap.Time("started", span.Start()),
				zap.Duration("elapsed", span.Duration()),
			)
		}
	}
	return nil
}
