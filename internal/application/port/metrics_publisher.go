package port

import (
	"context"
	"time"
)

// Gauge is a single point-in-time value derived from a report (open tickets, SLA risk, ...).
type Gauge struct {
	Name       string
	Value      float64
	Unit       string
	Timestamp  time.Time
	Dimensions map[string]string
}

// MetricsPublisher defines the interface for publishing report gauges to external observability platforms.
type MetricsPublisher interface {
	// PublishBatch publishes multiple gauges in a single operation.
	// Implementations should handle batching constraints (e.g., CloudWatch's 1000 metrics/request limit).
	PublishBatch(ctx context.Context, gauges []Gauge) error

	// Flush forces immediate publication of any buffered gauges.
	// Should be called during graceful shutdown to prevent data loss.
	Flush(ctx context.Context) error
}
