package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreschagin/support-dashboard/internal/domain/entity"
	"github.com/dreschagin/support-dashboard/internal/domain/report"
	"github.com/dreschagin/support-dashboard/internal/domain/valueobject"
)

func ptr(v float64) *float64 { return &v }

func monthlyTickets() []entity.Ticket {
	return []entity.Ticket{
		{
			TicketID: 1, TicketNumber: "T-1", TicketTitle: "Printer not working!!",
			TicketCreatedDate: "2025-01-02T10:00:00Z", FirstResponseDate: "2025-01-02T11:00:00Z",
			TicketResolvedDate: "2025-01-03T10:00:00Z", SurveyRating: ptr(5),
		},
		{
			TicketID: 2, TicketTitle: "Printer jam in office",
			TicketCreatedDate: "2025-01-05T00:00:00Z", FirstResponseDate: "2025-01-05T03:00:00Z",
			TicketResolvedDate: "2025-01-08T00:00:00Z", SurveyRating: ptr(3), SatisfactionScore: ptr(4),
		},
		{
			TicketID: 3, TicketTitle: "VPN access",
			TicketCreatedDate: "2025-01-10T00:00:00Z", FirstResponseDate: "2025-01-09T00:00:00Z",
		},
		{TicketID: 4, TicketTitle: "Late December", TicketCreatedDate: "2024-12-31T23:00:00Z"},
		{TicketID: 5, TicketTitle: "Early February", TicketCreatedDate: "2025-02-01T00:00:00Z"},
		{TicketID: 6, TicketTitle: "No date"},
	}
}

func TestMonthlyAggregator_Cohort(t *testing.T) {
	month, err := valueobject.ParseMonth("2025-01")
	require.NoError(t, err)

	cohort := NewMonthlyAggregator().Cohort(month, monthlyTickets())

	ids := make([]int64, 0)
	for _, ticket := range cohort {
		ids = append(ids, ticket.TicketID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestMonthlyAggregator_Aggregate(t *testing.T) {
	month, err := valueobject.ParseMonth("2025-01")
	require.NoError(t, err)
	agg := NewMonthlyAggregator()

	metrics := agg.Aggregate(month, agg.Cohort(month, monthlyTickets()), report.BillableHours{})

	assert.Equal(t, "January 2025", metrics.MonthLabel)
	assert.Equal(t, 3, metrics.TotalTickets)
	// отрицательная дельта третьего тикета не участвует в среднем
	assert.Equal(t, 120.0, metrics.AvgFirstResponseMinutes)
	assert.Equal(t, 2880.0, metrics.AvgResolutionMinutes)
	assert.Equal(t, 4.0, metrics.SatisfactionScore)
	assert.Equal(t, report.SlaStat{Count: 1, Percentage: 33.3}, metrics.ResponseWithin2Hours)
	assert.Equal(t, report.SlaStat{Count: 1, Percentage: 33.3}, metrics.ClosureWithinTwoDays)
	assert.NotNil(t, metrics.BillableHours.Entries)
}

func TestMonthlyAggregator_Rows(t *testing.T) {
	month, err := valueobject.ParseMonth("2025-01")
	require.NoError(t, err)
	agg := NewMonthlyAggregator()

	rows := agg.Aggregate(month, agg.Cohort(month, monthlyTickets()), report.BillableHours{}).Tickets

	require.Len(t, rows, 3)
	assert.Equal(t, "T-1", rows[0].Number)
	assert.Equal(t, "2025-01-02T10:00:00Z", rows[0].Opened)
	assert.Equal(t, ptr(60), rows[0].FirstResponseMinutes)
	assert.Equal(t, ptr(1440), rows[0].ResolutionMinutes)
	assert.Equal(t, ptr(5), rows[0].Satisfaction)
	assert.Equal(t, ptr(4), rows[1].Satisfaction)
	assert.Nil(t, rows[2].FirstResponseMinutes)
	assert.Nil(t, rows[2].ResolutionMinutes)
	assert.Nil(t, rows[2].Satisfaction)
}

func TestMonthlyAggregator_EmptyMonth(t *testing.T) {
	month, err := valueobject.ParseMonth("2025-03")
	require.NoError(t, err)

	metrics := NewMonthlyAggregator().Aggregate(month, nil, report.BillableHours{})

	assert.Equal(t, 0, metrics.TotalTickets)
	assert.Equal(t, 0.0, metrics.ResponseWithin2Hours.Percentage)
	assert.Equal(t, 0.0, metrics.AvgFirstResponseMinutes)
	assert.Equal(t, 0.0, metrics.SatisfactionScore)
	assert.NotNil(t, metrics.Tickets)
	assert.NotNil(t, metrics.KeywordCloud)
}

func TestMinutes_MissingOrNegative(t *testing.T) {
	_, ok := FirstResponseMinutes(entity.Ticket{FirstResponseDate: "2025-01-02T11:00:00Z"})
	assert.False(t, ok)

	_, ok = ResolutionMinutes(entity.Ticket{TicketCreatedDate: "2025-01-02T11:00:00Z"})
	assert.False(t, ok)

	_, ok = ResolutionMinutes(entity.Ticket{
		TicketCreatedDate:  "2025-01-02T11:00:00Z",
		TicketResolvedDate: "2025-01-02T10:00:00Z",
	})
	assert.False(t, ok)

	minutes, ok := ResolutionMinutes(entity.Ticket{
		TicketCreatedDate:  "2025-01-02T11:00:00Z",
		TicketResolvedDate: "2025-01-02T11:00:00Z",
	})
	assert.True(t, ok)
	assert.Equal(t, 0.0, minutes)
}

func TestKeywordCloud(t *testing.T) {
	cloud := KeywordCloud(monthlyTickets()[:3])

	assert.Equal(t, []report.KeywordCount{
		{Label: "printer", Count: 2},
		{Label: "working", Count: 1},
		{Label: "jam", Count: 1},
		{Label: "office", Count: 1},
		{Label: "vpn", Count: 1},
		{Label: "access", Count: 1},
	}, cloud)
}

func TestKeywordCloud_TopFifteen(t *testing.T) {
	tickets := make([]entity.Ticket, 0)
	for _, word := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel",
		"india", "juliet", "kilo", "lima", "mike", "november", "oscar", "papa", "quebec"} {
		tickets = append(tickets, entity.Ticket{TicketTitle: word + " a"})
	}
	tickets = append(tickets, entity.Ticket{TicketTitle: "quebec"})

	cloud := KeywordCloud(tickets)

	require.Len(t, cloud, 15)
	assert.Equal(t, report.KeywordCount{Label: "quebec", Count: 2}, cloud[0])
	assert.Equal(t, "alpha", cloud[1].Label)
}

func TestKeywordCloud_KeepsDigitsAndUnicodeLetters(t *testing.T) {
	cloud := KeywordCloud([]entity.Ticket{
		{TicketTitle: "Windows 7 crash"},
		{TicketTitle: "Café Wi-Fi down"},
	})

	assert.Equal(t, []report.KeywordCount{
		{Label: "windows", Count: 1},
		{Label: "7", Count: 1},
		{Label: "crash", Count: 1},
		{Label: "café", Count: 1},
		{Label: "wifi", Count: 1},
		{Label: "down", Count: 1},
	}, cloud)
}

func TestBillableHours(t *testing.T) {
	summary := BillableHours([][]entity.WorkHoursRecord{
		{
			{WorkHoursID: 1, TechnicianFullName: "Alice", BillableDurationMinutes: ptr(90)},
			{WorkHoursID: 2, TechnicianFullName: "Bob", TotalDurationMinutes: ptr(60), Billable: true},
		},
		{
			{WorkHoursID: 3, TechnicianFullName: "Alice", TotalDurationMinutes: ptr(30)},
			{WorkHoursID: 4, BillableDurationMinutes: ptr(30)},
		},
		nil,
	})

	assert.Equal(t, 3.0, summary.TotalHours)
	assert.Equal(t, []report.BillableEntry{
		{Technician: "Alice", Hours: 1.5},
		{Technician: "Bob", Hours: 1},
		{Technician: "Unassigned", Hours: 0.5},
	}, summary.Entries)
}

func TestBillableHours_Empty(t *testing.T) {
	summary := BillableHours(nil)

	assert.Equal(t, 0.0, summary.TotalHours)
	assert.NotNil(t, summary.Entries)
	assert.Empty(t, summary.Entries)
}
