package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dreschagin/support-dashboard/internal/application/port"
	"github.com/dreschagin/support-dashboard/internal/domain/report"
	"github.com/dreschagin/support-dashboard/internal/domain/service"
	"github.com/dreschagin/support-dashboard/internal/infrastructure/metrics"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

// GetDashboardMetricsUseCase строит оперативный срез дашборда
type GetDashboardMetricsUseCase struct {
	loader     *CollectionLoader
	aggregator *service.DashboardAggregator
	metrics    *metrics.Metrics
	logger     *logger.Logger
	now        func() time.Time

	fixtures    port.FixtureLoader
	fixturePath string

	mu   sync.Mutex
	memo *report.DashboardMetrics
}

// DashboardOption настраивает GetDashboardMetricsUseCase
type DashboardOption func(*GetDashboardMetricsUseCase)

// WithDashboardFixture включает режим полной подмены: фикстура читается один раз и отдается вместо upstream
func WithDashboardFixture(fixtures port.FixtureLoader, path string) DashboardOption {
	return func(uc *GetDashboardMetricsUseCase) {
		uc.fixtures = fixtures
		uc.fixturePath = path
	}
}

func WithDashboardClock(now func() time.Time) DashboardOption {
	return func(uc *GetDashboardMetricsUseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

// NewGetDashboardMetricsUseCase создает новый use case
func NewGetDashboardMetricsUseCase(
	loader *CollectionLoader,
	aggregator *service.DashboardAggregator,
	m *metrics.Metrics,
	logger *logger.Logger,
	opts ...DashboardOption,
) *GetDashboardMetricsUseCase {
	uc := &GetDashboardMetricsUseCase{
		loader:     loader,
		aggregator: aggregator,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute возвращает срез из фикстуры (если настроена и читается) или считает его по живым данным
func (uc *GetDashboardMetricsUseCase) Execute(ctx context.Context) (*report.DashboardMetrics, error) {
	if fixture := uc.fixture(ctx); fixture != nil {
		uc.metrics.FixtureFallback("dashboard")
		return fixture, nil
	}

	now := uc.now()
	windows := uc.aggregator.Windows(now)

	// 1. Четыре коллекции грузятся параллельно, любая ошибка валит весь срез
	var in service.DashboardInput
	err := joinAll(ctx,
		func(ctx context.Context) (err error) {
			in.AllTickets, err = uc.loader.AllTickets(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			in.ModifiedToday, err = uc.loader.ModifiedSince(ctx, windows.TodayStart, TodayTicketsMaxPages)
			return err
		},
		func(ctx context.Context) (err error) {
			in.ModifiedThisMonth, err = uc.loader.ModifiedSince(ctx, windows.MonthStart, MonthTicketsMaxPages)
			return err
		},
		func(ctx context.Context) (err error) {
			in.OpenAlerts, err = uc.loader.OpenAlerts(ctx)
			return err
		},
	)
	if err != nil {
		uc.logger.Error("Failed to load dashboard collections", err)
		return nil, fmt.Errorf("failed to load dashboard collections: %w", err)
	}

	// 2. Агрегация
	result := uc.aggregator.Aggregate(in, now)
	uc.logger.Debug("Dashboard metrics computed",
		"open_total", result.OpenTotal,
		"tickets", len(in.AllTickets.Items),
		"alerts", len(in.OpenAlerts.Items))

	return result, nil
}

// UsesFixture сообщает, отдается ли дашборд из фикстуры
func (uc *GetDashboardMetricsUseCase) UsesFixture() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.memo != nil
}

// fixture читает фикстуру один раз; в memo попадает только успешная загрузка
func (uc *GetDashboardMetricsUseCase) fixture(ctx context.Context) *report.DashboardMetrics {
	if uc.fixtures == nil || uc.fixturePath == "" {
		return nil
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.memo != nil {
		return uc.memo
	}

	var loaded report.DashboardMetrics
	if err := uc.fixtures.LoadFixture(ctx, uc.fixturePath, &loaded); err != nil {
		uc.logger.Error("Dashboard fixture unavailable, using live data", err, "path", uc.fixturePath)
		return nil
	}

	uc.logger.Info("Serving dashboard from fixture", "path", uc.fixturePath)
	uc.memo = &loaded
	return uc.memo
}
