package port

import (
	"context"
	"time"
)

// LogLevel is the severity attached to a forwarded log entry.
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// LogEntry is one structured log record forwarded to an external sink.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
	Fields    map[string]interface{}
}

// LogPublisher ships logger output (upstream failures, fallback decisions) to an external log store.
type LogPublisher interface {
	Publish(ctx context.Context, entry LogEntry) error

	// PublishBatch may split entries to respect backend request limits.
	PublishBatch(ctx context.Context, entries []LogEntry) error

	// Flush is called on shutdown.
	Flush(ctx context.Context) error
}
