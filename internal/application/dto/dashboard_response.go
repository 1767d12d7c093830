package dto

import "github.com/dreschagin/support-dashboard/internal/domain/report"

// DashboardResponse описывает тело ответа GET /api/v1/dashboard
type DashboardResponse struct {
	OK      bool                     `json:"ok"`
	Metrics *report.DashboardMetrics `json:"metrics,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

func NewDashboardResponse(metrics *report.DashboardMetrics) DashboardResponse {
	return DashboardResponse{OK: true, Metrics: metrics}
}

func NewDashboardError(err error) DashboardResponse {
	return DashboardResponse{OK: false, Error: err.Error()}
}
