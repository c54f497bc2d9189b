package gaugrid

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordCompute is called after each collocation call.
	// npoints is the batch size, err is nil if successful.
	RecordCompute(L, npoints int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCompute(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	ComputeCount      atomic.Int64
	ComputeErrors     atomic.Int64
	ComputeTotalNanos atomic.Int64
	PointsEvaluated   atomic.Int64
}

// RecordCompute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompute(_ int, npoints int, duration time.Duration, err error) {
	b.ComputeCount.Add(1)
	b.ComputeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ComputeErrors.Add(1)
		return
	}
	b.PointsEvaluated.Add(int64(npoints))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	count := b.ComputeCount.Load()
	var avg int64
	if count > 0 {
		avg = b.ComputeTotalNanos.Load() / count
	}
	return BasicMetricsStats{
		ComputeCount:    count,
		ComputeErrors:   b.ComputeErrors.Load(),
		ComputeAvgNanos: avg,
		PointsEvaluated: b.PointsEvaluated.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ComputeCount    int64
	ComputeErrors   int64
	ComputeAvgNanos int64
	PointsEvaluated int64
}
