package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dreschagin/support-dashboard/internal/application/port"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

// StreamName is the JetStream stream that captures report events
const StreamName = "SUPPORT_REPORTS"

type asyncPublisher interface {
	PublishAsync(subject string, data []byte, opts ...nats.PubOpt) (nats.PubAckFuture, error)
}

// NATSPublisher implements port.EventPublisher for NATS JetStream
type NATSPublisher struct {
	nc     *nats.Conn
	js     asyncPublisher
	logger *logger.Logger
}

var _ port.EventPublisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to NATS and makes sure the report stream exists
func NewNATSPublisher(natsURL string, log *logger.Logger) (*NATSPublisher, error) {
	// Connect to NATS with retry
	nc, err := nats.Connect(natsURL,
		nats.Name("support-dashboard"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(StreamName); err != nil {
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:     StreamName,
			Subjects: []string{"support.>"},
			MaxAge:   7 * 24 * time.Hour,
		}); err != nil {
			log.Warn("Failed to create JetStream stream, events may be dropped", "stream", StreamName, "error", err.Error())
		}
	}

	log.Info("Connected to NATS", "url", natsURL)

	return newPublisher(nc, js, log), nil
}

func newPublisher(nc *nats.Conn, js asyncPublisher, log *logger.Logger) *NATSPublisher {
	return &NATSPublisher{nc: nc, js: js, logger: log}
}

// PublishEvent publishes an event to NATS (async)
func (p *NATSPublisher) PublishEvent(ctx context.Context, subject string, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Fire-and-forget: ack futures are not awaited
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.logger.Error("Failed to publish event", err, "subject", subject)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published",
		"subject", subject,
		"size", len(data),
	)

	return nil
}

// Close closes the NATS connection
func (p *NATSPublisher) Close() error {
	if p.nc != nil {
		p.logger.Info("Closing NATS connection")
		p.nc.Close()
	}
	return nil
}
