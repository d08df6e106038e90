package primego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordSegment is called after each emitted segment.
	// bytes is the segment's byte length, duration the time the
	// downstream consumer spent processing it.
	RecordSegment(bytes int, duration time.Duration)

	// RecordSieve is called after each completed sieve run.
	// duration is the total time taken, err is nil if successful.
	RecordSieve(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSegment(int, time.Duration) {}
func (NoopMetricsCollector) RecordSieve(time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SegmentCount    atomic.Int64
	SegmentBytes    atomic.Int64
	SieveCount      atomic.Int64
	SieveErrors     atomic.Int64
	SieveTotalNanos atomic.Int64
}

func (c *BasicMetricsCollector) RecordSegment(bytes int, _ time.Duration) {
	c.SegmentCount.Add(1)
	c.SegmentBytes.Add(int64(bytes))
}

func (c *BasicMetricsCollector) RecordSieve(duration time.Duration, err error) {
	c.SieveCount.Add(1)
	c.SieveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.SieveErrors.Add(1)
	}
}
