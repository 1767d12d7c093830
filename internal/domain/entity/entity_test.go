package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{raw: "2025-01-02T10:00:00Z", want: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)},
		{raw: "2025-01-02T10:00:00.123Z", want: time.Date(2025, 1, 2, 10, 0, 0, 123000000, time.UTC)},
		{raw: "2025-01-02T13:00:00+03:00", want: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)},
		{raw: "2025-01-02T10:00:00", want: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)},
		{raw: "2025-01-02T10:00:00.5", want: time.Date(2025, 1, 2, 10, 0, 0, 500000000, time.UTC)},
		{raw: "2025-01-02", want: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{raw: "  2025-01-02T10:00:00Z\t", want: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, ok := ParseTimestamp(tc.raw)
		assert.True(t, ok, tc.raw)
		assert.True(t, tc.want.Equal(got), "%q: want %s, got %s", tc.raw, tc.want, got)
	}

	for _, raw := range []string{"", "   ", "yesterday", "2025-13-01"} {
		_, ok := ParseTimestamp(raw)
		assert.False(t, ok, raw)
	}
}

func TestTicket_SLADueAtPrefersFirstResponse(t *testing.T) {
	ticket := Ticket{FirstResponseDueDate: "2025-01-02T10:00:00Z", ClosedTicketDueDate: "2025-01-05T10:00:00Z"}
	due, ok := ticket.SLADueAt()
	assert.True(t, ok)
	assert.Equal(t, 2, due.Day())

	ticket.FirstResponseDueDate = ""
	due, ok = ticket.SLADueAt()
	assert.True(t, ok)
	assert.Equal(t, 5, due.Day())
}

func TestTicket_Satisfaction(t *testing.T) {
	score, rating := 4.0, 2.0

	assert.Nil(t, Ticket{}.Satisfaction())
	assert.Equal(t, &rating, Ticket{SurveyRating: &rating}.Satisfaction())
	assert.Equal(t, &score, Ticket{SatisfactionScore: &score, SurveyRating: &rating}.Satisfaction())
}

func TestAlert_IsCritical(t *testing.T) {
	assert.True(t, Alert{Severity: "Critical"}.IsCritical())
	assert.True(t, Alert{Severity: " CRITICAL "}.IsCritical())
	assert.False(t, Alert{Severity: "Warning"}.IsCritical())
	assert.False(t, Alert{}.IsCritical())
}

func TestWorkHoursRecord_BillableMinutes(t *testing.T) {
	explicit, total := 45.0, 90.0

	assert.Equal(t, 45.0, WorkHoursRecord{BillableDurationMinutes: &explicit, TotalDurationMinutes: &total}.BillableMinutes())
	assert.Equal(t, 90.0, WorkHoursRecord{TotalDurationMinutes: &total, Billable: true}.BillableMinutes())
	assert.Equal(t, 0.0, WorkHoursRecord{TotalDurationMinutes: &total}.BillableMinutes())
	assert.Equal(t, 0.0, WorkHoursRecord{Billable: true}.BillableMinutes())
}

func TestNewCollection(t *testing.T) {
	c := NewCollection[Ticket](nil)
	assert.NotNil(t, c.Items)
	assert.Equal(t, 0, c.TotalItemCount)

	c = NewCollection([]Ticket{{TicketID: 1}, {TicketID: 2}})
	assert.Equal(t, 2, c.TotalItemCount)
}
