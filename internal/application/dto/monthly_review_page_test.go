package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreschagin/support-dashboard/internal/domain/report"
)

func metricsWithRows(n int) *report.MonthlyReviewMetrics {
	metrics := report.DefaultMonthlyReviewMetrics()
	for i := 1; i <= n; i++ {
		metrics.Tickets = append(metrics.Tickets, report.TicketRow{ID: int64(i)})
	}
	return metrics
}

func TestNewMonthlyReviewPage_SecondPage(t *testing.T) {
	page := NewMonthlyReviewPage(metricsWithRows(40), "2025-01", 2)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 26, page.ShowingFrom)
	assert.Equal(t, 40, page.ShowingTo)
	require.Len(t, page.Rows, 15)
	assert.Equal(t, int64(26), page.Rows[0].ID)
}

func TestNewMonthlyReviewPage_ClampsPage(t *testing.T) {
	assert.Equal(t, 1, NewMonthlyReviewPage(metricsWithRows(10), "2025-01", 0).Page)
	assert.Equal(t, 1, NewMonthlyReviewPage(metricsWithRows(10), "2025-01", 9).Page)
}

func TestNewMonthlyReviewPage_NilMetrics(t *testing.T) {
	page := NewMonthlyReviewPage(nil, "2025-01", 3)

	require.NotNil(t, page.Metrics)
	assert.Equal(t, "Current Month", page.Metrics.MonthLabel)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.ShowingFrom)
	assert.Equal(t, 0, page.ShowingTo)
	assert.Empty(t, page.Rows)
	assert.NotNil(t, page.Rows)
}
