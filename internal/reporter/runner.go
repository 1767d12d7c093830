package reporter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dreschagin/support-dashboard/pkg/logger"
)

// Runner периодически вызывает Service и хранит результат последнего цикла
type Runner struct {
	service  *Service
	log      *logger.Logger
	interval time.Duration

	runMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastRunAt   time.Time
	lastError   string
	lastSummary *CycleSummary
}

func NewRunner(service *Service, log *logger.Logger, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Runner{
		service:   service,
		log:       log,
		interval:  interval,
		startedAt: time.Now(),
	}
}

// Start блокируется до отмены ctx
func (r *Runner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// RunOnce сам сохраняет и логирует ошибку
			_, _ = r.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Runner) RunOnce(ctx context.Context) (*CycleSummary, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	cycleCtx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	summary, err := r.service.PublishLatest(cycleCtx)
	runAt := time.Now()

	if err != nil {
		wrappedErr := fmt.Errorf("reporter cycle failed: %w", err)
		r.updateFailure(runAt, wrappedErr)
		r.log.Error("Reporter cycle failed", wrappedErr)
		return nil, wrappedErr
	}

	r.updateSuccess(runAt, summary)

	r.log.Info(
		"Reporter cycle completed",
		"source", summary.Source,
		"open_total", summary.OpenTotal,
		"sla_risk", summary.SLARiskCount,
		"gauges", summary.GaugesPublished,
		"event", summary.EventPublished,
	)

	return summary, nil
}

func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := Snapshot{
		StartedAt: r.startedAt,
		Interval:  r.interval,
		LastRunAt: r.lastRunAt,
		LastError: r.lastError,
	}

	if r.lastSummary != nil {
		copiedSummary := *r.lastSummary
		snapshot.LastSummary = &copiedSummary
	}

	return snapshot
}

func (r *Runner) updateFailure(runAt time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastRunAt = runAt
	r.lastError = err.Error()
}

func (r *Runner) updateSuccess(runAt time.Time, summary *CycleSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastRunAt = runAt
	r.lastError = ""
	r.lastSummary = summary
}
