package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreschagin/support-dashboard/internal/application/port"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

type fakeJetStream struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeJetStream) PublishAsync(subject string, data []byte, _ ...nats.PubOpt) (nats.PubAckFuture, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil, nil
}

func TestNATSPublisher_PublishEvent(t *testing.T) {
	js := &fakeJetStream{}
	publisher := newPublisher(nil, js, logger.New("error"))

	err := publisher.PublishEvent(context.Background(), port.SubjectMonthlyGenerated, map[string]interface{}{
		"month": "2025-01",
	})
	require.NoError(t, err)

	require.Equal(t, []string{port.SubjectMonthlyGenerated}, js.subjects)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(js.payloads[0], &decoded))
	assert.Equal(t, "2025-01", decoded["month"])
	assert.NoError(t, publisher.Close())
}

func TestNATSPublisher_PublishError(t *testing.T) {
	js := &fakeJetStream{err: errors.New("no responders")}
	publisher := newPublisher(nil, js, logger.New("error"))

	err := publisher.PublishEvent(context.Background(), port.SubjectDashboardGenerated, struct{}{})
	assert.ErrorContains(t, err, "no responders")
}

func TestNATSPublisher_CanceledContext(t *testing.T) {
	js := &fakeJetStream{}
	publisher := newPublisher(nil, js, logger.New("error"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, publisher.PublishEvent(ctx, port.SubjectDashboardGenerated, struct{}{}), context.Canceled)
	assert.Empty(t, js.subjects)
}
