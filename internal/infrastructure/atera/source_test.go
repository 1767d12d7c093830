package atera

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_TicketsModifiedSince(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/tickets/lastmodified", r.URL.Path)
		assert.Equal(t, "2025-01-01T00:00:00.000Z", r.URL.Query().Get("date"))
		assert.Equal(t, "false", r.URL.Query().Get("includeComments"))
		assert.Equal(t, "50", r.URL.Query().Get("itemsInPage"))
		_, _ = w.Write([]byte(`{"items":[{"TicketID":1,"TicketTitle":"Printer"}],"totalItemCount":1}`))
	})

	since := time.Date(2025, 1, 1, 3, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	tickets, err := NewSource(client).TicketsModifiedSince(context.Background(), since, 20)

	require.NoError(t, err)
	require.Len(t, tickets.Items, 1)
	assert.Equal(t, "Printer", tickets.Items[0].TicketTitle)
}

func TestSource_OpenAlertsUsesLargePages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/alerts", r.URL.Path)
		assert.Equal(t, "Open", r.URL.Query().Get("alertStatus"))
		assert.Equal(t, "100", r.URL.Query().Get("itemsInPage"))
		_, _ = w.Write([]byte(`{"items":[{"AlertID":5,"Severity":"Critical"}]}`))
	})

	alerts, err := NewSource(client).OpenAlerts(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, alerts.Items, 1)
	assert.True(t, alerts.Items[0].IsCritical())
	assert.Equal(t, 1, alerts.TotalItemCount)
}

func TestSource_WorkHours(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/tickets/42/workhoursrecords", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[{"WorkHoursID":1,"TechnicianFullName":"Alice","BillableDurationMinutes":30,"Billable":true}]}`))
	})

	records, err := NewSource(client).WorkHours(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 30.0, records[0].BillableMinutes())
}

func TestSource_AllTicketsWrapsUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := NewSource(client).AllTickets(context.Background(), 40)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
}
