package reporter

import "time"

// CycleSummary описывает итог одного цикла публикации дашборда
type CycleSummary struct {
	GeneratedAt        time.Time `json:"generatedAt"`
	Source             string    `json:"source"`
	OpenTotal          int       `json:"openTotal"`
	PendingTickets     int       `json:"pendingTickets"`
	SLARiskCount       int       `json:"slaRiskCount"`
	CriticalAlertsOpen int       `json:"criticalAlertsOpen"`
	GaugesPublished    int       `json:"gaugesPublished"`
	EventPublished     bool      `json:"eventPublished"`
}

// Snapshot хранит состояние runner для /readyz и /api/v1/reporter/summary
type Snapshot struct {
	StartedAt   time.Time     `json:"startedAt"`
	Interval    time.Duration `json:"interval"`
	LastRunAt   time.Time     `json:"lastRunAt"`
	LastError   string        `json:"lastError,omitempty"`
	LastSummary *CycleSummary `json:"lastSummary,omitempty"`
}
