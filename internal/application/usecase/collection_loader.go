package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dreschagin/support-dashboard/internal/application/port"
	"github.com/dreschagin/support-dashboard/internal/domain/entity"
	"github.com/dreschagin/support-dashboard/internal/domain/report"
	"github.com/dreschagin/support-dashboard/internal/infrastructure/metrics"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

// Лимиты страниц для выгрузки коллекций
const (
	AllTicketsMaxPages     = 40
	TodayTicketsMaxPages   = 10
	MonthTicketsMaxPages   = 20
	OpenAlertsMaxPages     = 10
	DefaultCollectionTTL   = 30 * time.Second
	cacheKeyOpenTickets    = "tickets:open"
	cacheKeyOpenAlerts     = "alerts:open"
	cacheKeyLastModified   = "tickets:lastmodified:"
	cacheKeyMonthlyTickets = "monthly-tickets:"
)

// CollectionLoader загружает коллекции тикетов и алертов через TTL кеш
type CollectionLoader struct {
	source  port.TicketSource
	cache   port.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewCollectionLoader создает загрузчик; cache может быть nil
func NewCollectionLoader(
	source port.TicketSource,
	cache port.Cache,
	m *metrics.Metrics,
	logger *logger.Logger,
) *CollectionLoader {
	return &CollectionLoader{
		source:  source,
		cache:   cache,
		ttl:     DefaultCollectionTTL,
		metrics: m,
		logger:  logger,
	}
}

// AllTickets возвращает все тикеты (ключ tickets:open)
func (l *CollectionLoader) AllTickets(ctx context.Context) (entity.Collection[entity.Ticket], error) {
	return cached(ctx, l, cacheKeyOpenTickets, true, func(ctx context.Context) (entity.Collection[entity.Ticket], error) {
		return l.source.AllTickets(ctx, AllTicketsMaxPages)
	})
}

// ModifiedSince возвращает тикеты, измененные начиная с since
func (l *CollectionLoader) ModifiedSince(ctx context.Context, since time.Time, maxPages int) (entity.Collection[entity.Ticket], error) {
	key := cacheKeyLastModified + report.FormatTime(since)
	return cached(ctx, l, key, true, func(ctx context.Context) (entity.Collection[entity.Ticket], error) {
		return l.source.TicketsModifiedSince(ctx, since, maxPages)
	})
}

// MonthlyTickets возвращает тикеты, измененные с начала месяца, для месячного отчета.
// forceRefresh пропускает чтение кеша, свежая выгрузка все равно сохраняется.
func (l *CollectionLoader) MonthlyTickets(ctx context.Context, monthStart time.Time, forceRefresh bool) (entity.Collection[entity.Ticket], error) {
	key := cacheKeyMonthlyTickets + report.FormatTime(monthStart)
	return cached(ctx, l, key, !forceRefresh, func(ctx context.Context) (entity.Collection[entity.Ticket], error) {
		return l.source.TicketsModifiedSince(ctx, monthStart, MonthTicketsMaxPages)
	})
}

// OpenAlerts возвращает открытые алерты
func (l *CollectionLoader) OpenAlerts(ctx context.Context) (entity.Collection[entity.Alert], error) {
	return cached(ctx, l, cacheKeyOpenAlerts, true, func(ctx context.Context) (entity.Collection[entity.Alert], error) {
		return l.source.OpenAlerts(ctx, OpenAlertsMaxPages)
	})
}

// WorkHours не кешируется: записи нужны только для одного расчета billable
func (l *CollectionLoader) WorkHours(ctx context.Context, ticketID int64) ([]entity.WorkHoursRecord, error) {
	return l.source.WorkHours(ctx, ticketID)
}

// cached читает значение из кеша (если readCache) или загружает его и сохраняет.
// Ошибка загрузки в кеш не попадает.
func cached[T any](
	ctx context.Context,
	l *CollectionLoader,
	key string,
	readCache bool,
	fetch func(context.Context) (T, error),
) (T, error) {
	if readCache && l.cache != nil {
		var value T
		err := l.cache.Get(ctx, key, &value)
		if err == nil {
			l.metrics.CacheHit()
			l.logger.Debug("Cache hit", "key", key)
			return value, nil
		}
		if !errors.Is(err, port.ErrCacheMiss) {
			l.logger.Warn("Cache read failed, fetching upstream", "key", key, "error", err.Error())
		}
		l.metrics.CacheMiss()
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to load %s: %w", key, err)
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, value, l.ttl); err != nil {
			l.logger.Warn("Failed to cache collection", "key", key, "error", err.Error())
		}
	}

	return value, nil
}
