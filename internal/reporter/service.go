package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/support-dashboard/internal/application/dto"
	"github.com/dreschagin/support-dashboard/internal/application/port"
	"github.com/dreschagin/support-dashboard/internal/domain/report"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

const (
	SourceLive    = "live"
	SourceFixture = "fixture"
)

// DashboardBuilder строит срез дашборда (usecase.GetDashboardMetricsUseCase)
type DashboardBuilder interface {
	Execute(ctx context.Context) (*report.DashboardMetrics, error)
	UsesFixture() bool
}

// Service строит дашборд и рассылает его в CloudWatch и NATS.
// Оба приемника опциональны.
type Service struct {
	dashboard DashboardBuilder
	gauges    port.MetricsPublisher
	events    port.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

func NewService(
	dashboard DashboardBuilder,
	gauges port.MetricsPublisher,
	events port.EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		dashboard: dashboard,
		gauges:    gauges,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

// PublishLatest строит дашборд и публикует gauges и событие.
// Ошибка публикации логируется и не валит цикл, ошибка построения валит.
func (s *Service) PublishLatest(ctx context.Context) (*CycleSummary, error) {
	metrics, err := s.dashboard.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}

	now := s.now()
	source := SourceLive
	if s.dashboard.UsesFixture() {
		source = SourceFixture
	}

	summary := &CycleSummary{
		GeneratedAt:        now,
		Source:             source,
		OpenTotal:          metrics.OpenTotal,
		PendingTickets:     metrics.PendingTickets,
		SLARiskCount:       metrics.SLARiskCount,
		CriticalAlertsOpen: metrics.CriticalAlertsOpen,
	}

	gauges := Gauges(metrics, source, now)

	if s.gauges != nil {
		if err := s.gauges.PublishBatch(ctx, gauges); err != nil {
			s.log.Warn("Failed to publish dashboard gauges", "error", err.Error())
		} else {
			summary.GaugesPublished = len(gauges)
		}
	}

	if s.events != nil {
		values := make(map[string]float64, len(gauges))
		for _, gauge := range gauges {
			values[gauge.Name] = gauge.Value
		}
		event := dto.NewReportEvent(port.SubjectDashboardGenerated, source, now, values)
		if err := s.events.PublishEvent(ctx, port.SubjectDashboardGenerated, event); err != nil {
			s.log.Warn("Failed to publish dashboard event", "error", err.Error())
		} else {
			summary.EventPublished = true
		}
	}

	return summary, nil
}

// Gauges раскладывает дашборд на числовые показатели
func Gauges(metrics *report.DashboardMetrics, source string, at time.Time) []port.Gauge {
	dimensions := map[string]string{"Report": "dashboard", "Source": source}
	gauge := func(name string, value float64, unit string) port.Gauge {
		return port.Gauge{Name: name, Value: value, Unit: unit, Timestamp: at, Dimensions: dimensions}
	}

	return []port.Gauge{
		gauge("OpenTickets", float64(metrics.OpenTotal), "count"),
		gauge("OpenThisMonth", float64(metrics.OpenThisMonth), "count"),
		gauge("NewToday", float64(metrics.NewToday), "count"),
		gauge("ClosedThisMonth", float64(metrics.ClosedThisMonth), "count"),
		gauge("PendingTickets", float64(metrics.PendingTickets), "count"),
		gauge("SLARiskTickets", float64(metrics.SLARiskCount), "count"),
		gauge("AverageOpenAgeHours", metrics.AverageOpenAgeHours, "hours"),
		gauge("CriticalAlertsOpen", float64(metrics.CriticalAlertsOpen), "count"),
	}
}
