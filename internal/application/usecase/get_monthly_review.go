package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dreschagin/support-dashboard/internal/application/dto"
	"github.com/dreschagin/support-dashboard/internal/application/port"
	"github.com/dreschagin/support-dashboard/internal/domain/entity"
	"github.com/dreschagin/support-dashboard/internal/domain/report"
	"github.com/dreschagin/support-dashboard/internal/domain/service"
	"github.com/dreschagin/support-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/support-dashboard/internal/infrastructure/metrics"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

const (
	DefaultMonthlyCacheTTL     = 12 * time.Hour
	DefaultBillableConcurrency = 4
	cacheKeyMonthlyReview      = "monthly-review:"
)

// MonthlyReviewConfig содержит параметры месячного отчета
type MonthlyReviewConfig struct {
	CacheTTL            time.Duration
	FixturePath         string
	BillableConcurrency int
}

// GetMonthlyReviewUseCase строит месячный отчет по когорте тикетов с кешированием и fallback на фикстуру
type GetMonthlyReviewUseCase struct {
	loader     *CollectionLoader
	aggregator *service.MonthlyAggregator
	cache      port.Cache
	fixtures   port.FixtureLoader
	events     port.EventPublisher
	metrics    *metrics.Metrics
	logger     *logger.Logger
	now        func() time.Time

	cacheTTL    time.Duration
	fixturePath string
	concurrency int
}

// MonthlyOption настраивает GetMonthlyReviewUseCase
type MonthlyOption func(*GetMonthlyReviewUseCase)

func WithMonthlyClock(now func() time.Time) MonthlyOption {
	return func(uc *GetMonthlyReviewUseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

// WithMonthlyEvents публикует support.monthly.generated после каждого свежего расчета
func WithMonthlyEvents(events port.EventPublisher) MonthlyOption {
	return func(uc *GetMonthlyReviewUseCase) {
		uc.events = events
	}
}

// NewGetMonthlyReviewUseCase создает новый use case; cache и fixtures могут быть nil
func NewGetMonthlyReviewUseCase(
	loader *CollectionLoader,
	aggregator *service.MonthlyAggregator,
	cache port.Cache,
	fixtures port.FixtureLoader,
	cfg MonthlyReviewConfig,
	m *metrics.Metrics,
	logger *logger.Logger,
	opts ...MonthlyOption,
) *GetMonthlyReviewUseCase {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultMonthlyCacheTTL
	}
	if cfg.BillableConcurrency < 1 {
		cfg.BillableConcurrency = DefaultBillableConcurrency
	}

	uc := &GetMonthlyReviewUseCase{
		loader:      loader,
		aggregator:  aggregator,
		cache:       cache,
		fixtures:    fixtures,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
		cacheTTL:    cfg.CacheTTL,
		fixturePath: cfg.FixturePath,
		concurrency: cfg.BillableConcurrency,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute возвращает отчет за месяц.
// nil без ошибки означает "нет данных": расчет не удался, а фикстуры нет.
func (uc *GetMonthlyReviewUseCase) Execute(
	ctx context.Context,
	month valueobject.TimeRange,
	forceRefresh bool,
) (*report.MonthlyReviewMetrics, error) {
	key := cacheKeyMonthlyReview + month.MonthKey()

	// 1. Кеш, если не запрошено принудительное обновление
	if !forceRefresh && uc.cache != nil {
		var cachedReview report.MonthlyReviewMetrics
		err := uc.cache.Get(ctx, key, &cachedReview)
		if err == nil {
			uc.metrics.CacheHit()
			uc.logger.Debug("Cache hit for monthly review", "month", month.MonthKey())
			return &cachedReview, nil
		}
		if !errors.Is(err, port.ErrCacheMiss) {
			uc.logger.Warn("Cache read failed for monthly review", "month", month.MonthKey(), "error", err.Error())
		}
		uc.metrics.CacheMiss()
	}

	// 2. Расчет по живым данным
	review, err := uc.build(ctx, month, forceRefresh)
	if err == nil {
		uc.store(ctx, key, review)
		uc.publish(ctx, review, "live")
		return review, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("monthly review cancelled: %w", ctxErr)
	}

	uc.logger.Error("Monthly review aggregation failed", err, "month", month.MonthKey())

	// 3. Fallback на фикстуру
	if fallback := uc.loadFixture(ctx); fallback != nil {
		uc.metrics.FixtureFallback("monthly")
		uc.store(ctx, key, fallback)
		return fallback, nil
	}

	// 4. Данных нет: ключ месяца инвалидируется
	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, key); err != nil {
			uc.logger.Warn("Failed to invalidate monthly review", "month", month.MonthKey(), "error", err.Error())
		}
	}
	return nil, nil
}

// ExecutePage возвращает страницу отчета.
// Пустой месяц = текущий месяц (UTC), отсутствие данных заменяется пустым отчетом.
func (uc *GetMonthlyReviewUseCase) ExecutePage(ctx context.Context, query dto.MonthlyReviewQuery) (*dto.MonthlyReviewPage, error) {
	month := valueobject.MonthOf(uc.now().UTC())
	if query.Month != "" {
		parsed, err := valueobject.ParseMonth(query.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid month: %w", err)
		}
		month = parsed
	}

	review, err := uc.Execute(ctx, month, query.ForceRefresh)
	if err != nil {
		return nil, err
	}

	return dto.NewMonthlyReviewPage(review, month.MonthKey(), query.Page), nil
}

func (uc *GetMonthlyReviewUseCase) build(
	ctx context.Context,
	month valueobject.TimeRange,
	forceRefresh bool,
) (*report.MonthlyReviewMetrics, error) {
	tickets, err := uc.loader.MonthlyTickets(ctx, month.Start(), forceRefresh)
	if err != nil {
		return nil, err
	}

	cohort := uc.aggregator.Cohort(month, tickets.Items)
	billable, err := uc.billableHours(ctx, cohort)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("Monthly cohort selected",
		"month", month.MonthKey(),
		"fetched", len(tickets.Items),
		"cohort", len(cohort))

	return uc.aggregator.Aggregate(month, cohort, billable), nil
}

// billableHours запрашивает work hours по каждому тикету не более чем в concurrency потоков.
// Ошибка по тикету логируется и дает ноль; свертка идет в порядке тикетов.
// Отмена ctx прерывает расчет целиком: частичная сводка не возвращается.
func (uc *GetMonthlyReviewUseCase) billableHours(ctx context.Context, cohort []entity.Ticket) (report.BillableHours, error) {
	perTicket := make([][]entity.WorkHoursRecord, len(cohort))

	var g errgroup.Group
	g.SetLimit(uc.concurrency)

	for i, ticket := range cohort {
		g.Go(func() error {
			records, err := uc.loader.WorkHours(ctx, ticket.TicketID)
			if err != nil {
				uc.metrics.WorkHoursFailure()
				uc.logger.Warn("Failed to fetch work hours, counting as zero",
					"ticket_id", ticket.TicketID,
					"error", err.Error())
				return nil
			}
			perTicket[i] = records
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return report.BillableHours{}, fmt.Errorf("billable hours: %w", err)
	}

	return service.BillableHours(perTicket), nil
}

func (uc *GetMonthlyReviewUseCase) loadFixture(ctx context.Context) *report.MonthlyReviewMetrics {
	if uc.fixtures == nil || uc.fixturePath == "" {
		return nil
	}

	var fixture report.MonthlyReviewMetrics
	if err := uc.fixtures.LoadFixture(ctx, uc.fixturePath, &fixture); err != nil {
		uc.logger.Error("Monthly review fixture unavailable", err, "path", uc.fixturePath)
		return nil
	}

	uc.logger.Info("Serving monthly review from fixture", "path", uc.fixturePath)
	return &fixture
}

func (uc *GetMonthlyReviewUseCase) store(ctx context.Context, key string, review *report.MonthlyReviewMetrics) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, key, review, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache monthly review", "key", key, "error", err.Error())
	}
}

func (uc *GetMonthlyReviewUseCase) publish(ctx context.Context, review *report.MonthlyReviewMetrics, source string) {
	if uc.events == nil {
		return
	}

	event := dto.NewReportEvent(port.SubjectMonthlyGenerated, source, uc.now(), map[string]float64{
		"totalTickets":            float64(review.TotalTickets),
		"avgFirstResponseMinutes": review.AvgFirstResponseMinutes,
		"avgResolutionMinutes":    review.AvgResolutionMinutes,
		"billableHours":           review.BillableHours.TotalHours,
	})
	if err := uc.events.PublishEvent(ctx, port.SubjectMonthlyGenerated, event); err != nil {
		uc.logger.Warn("Failed to publish monthly review event", "error", err.Error())
	}
}
