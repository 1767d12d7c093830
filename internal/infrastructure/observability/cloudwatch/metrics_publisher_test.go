package cloudwatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/dreschagin/support-dashboard/internal/application/port"
)

type fakeMetricsClient struct {
	mu       sync.Mutex
	inputs   []*cloudwatch.PutMetricDataInput
	failures int
}

func (f *fakeMetricsClient) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("throttled")
	}
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMapUnit(t *testing.T) {
	tests := []struct {
		unit     string
		expected string
	}{
		{"%", "Percent"},
		{"count", "Count"},
		{"s", "Seconds"},
		{"ms", "Milliseconds"},
		{"hours", "None"},
	}

	for _, tt := range tests {
		if result := mapUnit(tt.unit); string(result) != tt.expected {
			t.Errorf("mapUnit(%q) = %v, want %v", tt.unit, result, tt.expected)
		}
	}
}

func TestConvertToDatum(t *testing.T) {
	p := newMetricsPublisher(&fakeMetricsClient{}, MetricsPublisherConfig{
		Namespace:         "SupportDashboard",
		DefaultDimensions: map[string]string{"Environment": "test", "Report": "default"},
	}, nil)

	ts := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	datum := p.convertToDatum(port.Gauge{
		Name:       "OpenTickets",
		Value:      42,
		Unit:       "count",
		Timestamp:  ts,
		Dimensions: map[string]string{"Report": "dashboard"},
	})

	if aws.ToString(datum.MetricName) != "OpenTickets" {
		t.Errorf("Expected MetricName=OpenTickets, got %v", aws.ToString(datum.MetricName))
	}
	if aws.ToFloat64(datum.Value) != 42 {
		t.Errorf("Expected Value=42, got %v", aws.ToFloat64(datum.Value))
	}
	if datum.Unit != "Count" {
		t.Errorf("Expected Unit=Count, got %v", datum.Unit)
	}
	if !aws.ToTime(datum.Timestamp).Equal(ts) {
		t.Errorf("Expected Timestamp=%v, got %v", ts, aws.ToTime(datum.Timestamp))
	}

	// Gauge dimensions override defaults; output is sorted by name
	if len(datum.Dimensions) != 2 {
		t.Fatalf("Expected 2 dimensions, got %d", len(datum.Dimensions))
	}
	if aws.ToString(datum.Dimensions[0].Name) != "Environment" || aws.ToString(datum.Dimensions[1].Value) != "dashboard" {
		t.Errorf("Unexpected dimensions: %+v", datum.Dimensions)
	}
}

func TestPublishBatch_AutoFlushAndChunks(t *testing.T) {
	client := &fakeMetricsClient{}
	p := newMetricsPublisher(client, MetricsPublisherConfig{Namespace: "SupportDashboard", BufferSize: 2}, nil)

	gauges := []port.Gauge{{Name: "A", Value: 1}, {Name: "B", Value: 2}, {Name: "C", Value: 3}}
	if err := p.PublishBatch(context.Background(), gauges); err != nil {
		t.Fatalf("PublishBatch failed: %v", err)
	}

	if len(client.inputs) != 1 || len(client.inputs[0].MetricData) != 2 {
		t.Fatalf("Expected one auto-flush of 2 gauges, got %d requests", len(client.inputs))
	}

	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(client.inputs) != 2 || aws.ToString(client.inputs[1].Namespace) != "SupportDashboard" {
		t.Fatalf("Expected remaining gauge to be flushed on close, got %d requests", len(client.inputs))
	}
}

func TestFlush_RetriesThenSucceeds(t *testing.T) {
	client := &fakeMetricsClient{failures: 2}
	p := newMetricsPublisher(client, MetricsPublisherConfig{Namespace: "SupportDashboard"}, nil)
	p.backoff = time.Millisecond

	_ = p.PublishBatch(context.Background(), []port.Gauge{{Name: "A", Value: 1}})
	if err := p.Flush(context.Background()); err != nil {
		t.Fatalf("Expected flush to succeed after retries: %v", err)
	}
	if len(client.inputs) != 1 {
		t.Errorf("Expected 1 successful request, got %d", len(client.inputs))
	}
}

func TestFlush_GivesUpAfterMaxRetries(t *testing.T) {
	client := &fakeMetricsClient{failures: maxRetries}
	p := newMetricsPublisher(client, MetricsPublisherConfig{Namespace: "SupportDashboard"}, nil)
	p.backoff = time.Millisecond

	_ = p.PublishBatch(context.Background(), []port.Gauge{{Name: "A", Value: 1}})
	if err := p.Flush(context.Background()); err == nil {
		t.Fatal("Expected flush to fail")
	}
}

func TestNewMetricsPublisher_Validation(t *testing.T) {
	if _, err := NewMetricsPublisher(context.Background(), MetricsPublisherConfig{}, nil); err == nil {
		t.Error("Expected namespace validation to fail")
	}
}
