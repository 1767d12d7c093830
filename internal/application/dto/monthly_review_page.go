package dto

import (
	"github.com/dreschagin/support-dashboard/internal/domain/report"
)

// MonthlyReviewPageSize задает число строк тикетов на странице отчета
const MonthlyReviewPageSize = 25

// MonthlyReviewQuery содержит параметры страницы месячного отчета
type MonthlyReviewQuery struct {
	Month        string // YYYY-MM, пусто = текущий месяц
	Page         int
	ForceRefresh bool
}

// MonthlyReviewPage содержит отчет за месяц с одной страницей строк тикетов
type MonthlyReviewPage struct {
	Metrics       *report.MonthlyReviewMetrics `json:"metrics"`
	SelectedMonth string                       `json:"selectedMonth"`
	Page          int                          `json:"page"`
	TotalPages    int                          `json:"totalPages"`
	PageSize      int                          `json:"pageSize"`
	ShowingFrom   int                          `json:"showingFrom"`
	ShowingTo     int                          `json:"showingTo"`
	Rows          []report.TicketRow           `json:"rows"`
}

// NewMonthlyReviewPage режет строки отчета на страницы.
// nil metrics заменяется пустым отчетом, page приводится к [1, totalPages].
func NewMonthlyReviewPage(metrics *report.MonthlyReviewMetrics, month string, page int) *MonthlyReviewPage {
	if metrics == nil {
		metrics = report.DefaultMonthlyReviewMetrics()
	}

	total := len(metrics.Tickets)
	totalPages := (total + MonthlyReviewPageSize - 1) / MonthlyReviewPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	from := (page - 1) * MonthlyReviewPageSize
	to := from + MonthlyReviewPageSize
	if to > total {
		to = total
	}

	rows := make([]report.TicketRow, to-from)
	copy(rows, metrics.Tickets[from:to])

	showingFrom := 0
	if total > 0 {
		showingFrom = from + 1
	}

	return &MonthlyReviewPage{
		Metrics:       metrics,
		SelectedMonth: month,
		Page:          page,
		TotalPages:    totalPages,
		PageSize:      MonthlyReviewPageSize,
		ShowingFrom:   showingFrom,
		ShowingTo:     to,
		Rows:          rows,
	}
}
