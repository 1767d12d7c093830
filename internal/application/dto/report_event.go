package dto

import (
	"time"

	"github.com/google/uuid"
)

// ReportEvent публикуется в NATS после построения отчета
type ReportEvent struct {
	ID          string             `json:"id"`
	Subject     string             `json:"subject"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Source      string             `json:"source"` // live или fixture
	Summary     map[string]float64 `json:"summary"`
}

func NewReportEvent(subject, source string, generatedAt time.Time, summary map[string]float64) ReportEvent {
	return ReportEvent{
		ID:          uuid.NewString(),
		Subject:     subject,
		GeneratedAt: generatedAt.UTC(),
		Source:      source,
		Summary:     summary,
	}
}
