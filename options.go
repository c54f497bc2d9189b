package gaugrid

import (
	"log/slog"

	"github.com/hupe1980/gaugrid/internal/vector"
	"github.com/hupe1980/gaugrid/order"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	cache            *vector.Cache
}

// Option configures a Collocator.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring calls.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &gaugrid.BasicMetricsCollector{}
//	c := gaugrid.New(gaugrid.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
//
// Example with JSON logging:
//
//	c := gaugrid.New(gaugrid.WithLogger(gaugrid.NewJSONLogger(slog.LevelDebug)))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithCache makes Collocators share the kernels held by kc.
func WithCache(kc *KernelCache) Option {
	return func(o *options) {
		if kc != nil {
			o.cache = kc.c
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.cache == nil {
		o.cache = vector.NewCache(vector.WithLogger(o.logger.Logger))
	}
	return o
}

type computeOptions struct {
	deriv      int
	spherical  bool
	convention order.Convention
}

// ComputeOption configures one Compute call.
type ComputeOption func(*computeOptions)

// WithDerivativeOrder requests derivatives up to order n: 0 value only,
// 1 adds the gradient, 2 adds the Hessian.
func WithDerivativeOrder(n int) ComputeOption {
	return func(o *computeOptions) {
		o.deriv = n
	}
}

// WithSpherical selects real solid harmonic rows instead of Cartesian rows.
func WithSpherical(spherical bool) ComputeOption {
	return func(o *computeOptions) {
		o.spherical = spherical
	}
}

// WithCartesianOrder sets the Cartesian ordering convention (default order.Row).
func WithCartesianOrder(c order.Convention) ComputeOption {
	return func(o *computeOptions) {
		o.convention = c
	}
}

func applyComputeOptions(optFns []ComputeOption) computeOptions {
	o := computeOptions{convention: order.Row}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
