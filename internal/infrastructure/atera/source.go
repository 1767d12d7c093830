package atera

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/support-dashboard/internal/application/port"
	"github.com/dreschagin/support-dashboard/internal/domain/entity"
	"github.com/dreschagin/support-dashboard/internal/domain/report"
)

var _ port.TicketSource = (*Source)(nil)

const (
	alertsPageSize    = 100
	workHoursMaxPages = 10
)

// Source reads tickets, alerts and work hours from the API.
type Source struct {
	client *Client
}

func NewSource(client *Client) *Source {
	return &Source{client: client}
}

func (s *Source) AllTickets(ctx context.Context, maxPages int) (entity.Collection[entity.Ticket], error) {
	collection, err := Drain(ctx, FetchPages[entity.Ticket](s.client, "/tickets", nil), DrainOptions{
		PageSize: DefaultPageSize,
		MaxPages: maxPages,
	})
	if err != nil {
		return entity.Collection[entity.Ticket]{}, fmt.Errorf("fetch tickets: %w", err)
	}
	return collection, nil
}

func (s *Source) TicketsModifiedSince(ctx context.Context, since time.Time, maxPages int) (entity.Collection[entity.Ticket], error) {
	params := Params{
		"date":            report.FormatTime(since),
		"includeComments": false,
	}

	collection, err := Drain(ctx, FetchPages[entity.Ticket](s.client, "/tickets/lastmodified", params), DrainOptions{
		PageSize: DefaultPageSize,
		MaxPages: maxPages,
	})
	if err != nil {
		return entity.Collection[entity.Ticket]{}, fmt.Errorf("fetch tickets modified since %s: %w", params["date"], err)
	}
	return collection, nil
}

func (s *Source) OpenAlerts(ctx context.Context, maxPages int) (entity.Collection[entity.Alert], error) {
	params := Params{"alertStatus": "Open"}

	collection, err := Drain(ctx, FetchPages[entity.Alert](s.client, "/alerts", params), DrainOptions{
		PageSize: alertsPageSize,
		MaxPages: maxPages,
	})
	if err != nil {
		return entity.Collection[entity.Alert]{}, fmt.Errorf("fetch open alerts: %w", err)
	}
	return collection, nil
}

func (s *Source) WorkHours(ctx context.Context, ticketID int64) ([]entity.WorkHoursRecord, error) {
	path := fmt.Sprintf("/tickets/%d/workhoursrecords", ticketID)

	collection, err := Drain(ctx, FetchPages[entity.WorkHoursRecord](s.client, path, nil), DrainOptions{
		PageSize: DefaultPageSize,
		MaxPages: workHoursMaxPages,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch work hours for ticket %d: %w", ticketID, err)
	}
	return collection.Items, nil
}
