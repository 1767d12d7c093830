package cloudwatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/dreschagin/support-dashboard/internal/application/port"
	"github.com/dreschagin/support-dashboard/internal/infrastructure/awsconfig"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

// CloudWatch limits
const maxMetricsPerRequest = 1000

type metricDataPutter interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsPublisherConfig holds configuration for CloudWatch metrics publishing.
type MetricsPublisherConfig struct {
	Namespace         string
	AWS               awsconfig.Options
	DefaultDimensions map[string]string
	BufferSize        int
	FlushInterval     time.Duration
}

// MetricsPublisher buffers report gauges and ships them to CloudWatch.
type MetricsPublisher struct {
	client            metricDataPutter
	namespace         string
	defaultDimensions map[string]string
	logger            *logger.Logger
	backoff           time.Duration

	buffer     []port.Gauge
	bufferSize int
	mu         sync.Mutex

	flushTicker *time.Ticker
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

var _ port.MetricsPublisher = (*MetricsPublisher)(nil)

// NewMetricsPublisher creates a new CloudWatch metrics publisher.
func NewMetricsPublisher(ctx context.Context, cfg MetricsPublisherConfig, log *logger.Logger) (*MetricsPublisher, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}

	awsCfg, err := awsconfig.Load(ctx, cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	p := newMetricsPublisher(cloudwatch.NewFromConfig(awsCfg), cfg, log)
	p.startFlushLoop(cfg.FlushInterval)
	return p, nil
}

func newMetricsPublisher(client metricDataPutter, cfg MetricsPublisherConfig, log *logger.Logger) *MetricsPublisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 100
	}
	return &MetricsPublisher{
		client:            client,
		namespace:         cfg.Namespace,
		defaultDimensions: cfg.DefaultDimensions,
		logger:            log,
		backoff:           initialBackoff,
		buffer:            make([]port.Gauge, 0, cfg.BufferSize),
		bufferSize:        cfg.BufferSize,
		stopCh:            make(chan struct{}),
	}
}

func (p *MetricsPublisher) startFlushLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	p.flushTicker = time.NewTicker(interval)
	p.wg.Add(1)
	go p.flushLoop()
}

// PublishBatch buffers gauges and flushes once the buffer is full.
func (p *MetricsPublisher) PublishBatch(ctx context.Context, gauges []port.Gauge) error {
	if len(gauges) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, gauge := range gauges {
		p.buffer = append(p.buffer, gauge)

		if len(p.buffer) >= p.bufferSize {
			if err := p.flushBufferUnsafe(ctx); err != nil {
				return fmt.Errorf("failed to flush buffer: %w", err)
			}
		}
	}

	return nil
}

// Flush forces immediate publication of all buffered gauges.
func (p *MetricsPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.flushBufferUnsafe(ctx)
}

// Close stops the background flush goroutine and flushes remaining gauges.
func (p *MetricsPublisher) Close(ctx context.Context) error {
	if p.flushTicker != nil {
		close(p.stopCh)
		p.flushTicker.Stop()
		p.wg.Wait()
	}

	return p.Flush(ctx)
}

func (p *MetricsPublisher) flushLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.flushTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			if err := p.Flush(ctx); err != nil && p.logger != nil {
				p.logger.Warn("CloudWatch metrics flush failed, will retry on next tick", "error", err.Error())
			}
			cancel()
		case <-p.stopCh:
			return
		}
	}
}

// flushBufferUnsafe flushes the buffer without locking (caller must hold lock).
func (p *MetricsPublisher) flushBufferUnsafe(ctx context.Context) error {
	if len(p.buffer) == 0 {
		return nil
	}

	data := make([]types.MetricDatum, 0, len(p.buffer))
	for _, gauge := range p.buffer {
		data = append(data, p.convertToDatum(gauge))
	}

	for i := 0; i < len(data); i += maxMetricsPerRequest {
		end := i + maxMetricsPerRequest
		if end > len(data) {
			end = len(data)
		}

		chunk := data[i:end]
		err := withRetry(ctx, p.backoff, func() (bool, error) {
			_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
				Namespace:  aws.String(p.namespace),
				MetricData: chunk,
			})
			return true, err
		})
		if err != nil {
			return fmt.Errorf("failed to publish chunk: %w", err)
		}
	}

	p.buffer = p.buffer[:0]

	return nil
}

func (p *MetricsPublisher) convertToDatum(gauge port.Gauge) types.MetricDatum {
	timestamp := gauge.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	merged := make(map[string]string, len(p.defaultDimensions)+len(gauge.Dimensions))
	for key, value := range p.defaultDimensions {
		merged[key] = value
	}
	for key, value := range gauge.Dimensions {
		merged[key] = value
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	dimensions := make([]types.Dimension, 0, len(names))
	for _, name := range names {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(name),
			Value: aws.String(merged[name]),
		})
	}

	return types.MetricDatum{
		MetricName: aws.String(gauge.Name),
		Value:      aws.Float64(gauge.Value),
		Unit:       mapUnit(gauge.Unit),
		Timestamp:  aws.Time(timestamp),
		Dimensions: dimensions,
	}
}

func mapUnit(unit string) types.StandardUnit {
	switch unit {
	case "%":
		return types.StandardUnitPercent
	case "count":
		return types.StandardUnitCount
	case "s":
		return types.StandardUnitSeconds
	case "ms":
		return types.StandardUnitMilliseconds
	default:
		return types.StandardUnitNone
	}
}
