package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreschagin/support-dashboard/internal/application/dto"
	"github.com/dreschagin/support-dashboard/internal/domain/report"
)

func writeFixture(t *testing.T, name string, value interface{}) string {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func setupEnv(t *testing.T) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)

	t.Setenv("ATERA_API_KEY", "test-key")
	t.Setenv("ATERA_BASE_URL", upstream.URL)
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("NATS_ENABLED", "false")
	t.Setenv("CLOUDWATCH_METRICS_ENABLED", "false")
	t.Setenv("CLOUDWATCH_LOGS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DASHBOARD_FIXTURE", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDashboardCommand_PrintsFixture(t *testing.T) {
	setupEnv(t)
	t.Setenv("DASHBOARD_FIXTURE", writeFixture(t, "dashboard.json", report.DashboardMetrics{
		GeneratedAt: "2025-01-15T12:00:00.000Z",
		OpenTotal:   7,
		NewToday:    2,
	}))

	output, err := run(t, "dashboard")
	require.NoError(t, err)

	var response struct {
		OK      bool                    `json:"ok"`
		Metrics report.DashboardMetrics `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &response))
	assert.True(t, response.OK)
	assert.Equal(t, 7, response.Metrics.OpenTotal)
	assert.Equal(t, 2, response.Metrics.NewToday)
}

func TestDashboardCommand_UpstreamFailure(t *testing.T) {
	setupEnv(t)

	output, err := run(t, "dashboard")
	require.Error(t, err)
	assert.Empty(t, output)
}

func TestMonthlyCommand_FallsBackToFixture(t *testing.T) {
	setupEnv(t)

	rows := make([]report.TicketRow, 30)
	for i := range rows {
		rows[i] = report.TicketRow{ID: int64(i + 1)}
	}
	t.Setenv("MONTHLY_REVIEW_FIXTURE", writeFixture(t, "monthly.json", report.MonthlyReviewMetrics{
		MonthLabel:   "March 2025",
		TotalTickets: len(rows),
		Tickets:      rows,
	}))

	output, err := run(t, "monthly", "--month", "2025-03", "--page", "2", "--compact")
	require.NoError(t, err)

	var page dto.MonthlyReviewPage
	require.NoError(t, json.Unmarshal(bytes.TrimSpace([]byte(output)), &page))
	assert.Equal(t, "2025-03", page.SelectedMonth)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 26, page.ShowingFrom)
	assert.Equal(t, 30, page.ShowingTo)
	assert.Len(t, page.Rows, 5)
}

func TestMonthlyCommand_InvalidMonth(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "monthly", "--month", "March")
	require.Error(t, err)
}

func TestRootCommand_MissingAPIKey(t *testing.T) {
	setupEnv(t)
	t.Setenv("ATERA_API_KEY", "")

	_, err := run(t, "dashboard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ATERA_API_KEY")
}
