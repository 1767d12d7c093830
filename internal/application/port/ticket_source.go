package port

import (
	"context"
	"time"

	"github.com/dreschagin/support-dashboard/internal/domain/entity"
)

// TicketSource is the upstream ticketing platform, already drained of pagination.
type TicketSource interface {
	// AllTickets returns every ticket visible to the API key.
	AllTickets(ctx context.Context, maxPages int) (entity.Collection[entity.Ticket], error)

	// TicketsModifiedSince returns tickets modified at or after since.
	TicketsModifiedSince(ctx context.Context, since time.Time, maxPages int) (entity.Collection[entity.Ticket], error)

	// OpenAlerts returns alerts with status Open.
	OpenAlerts(ctx context.Context, maxPages int) (entity.Collection[entity.Alert], error)

	// WorkHours returns the work-hour records logged against one ticket.
	WorkHours(ctx context.Context, ticketID int64) ([]entity.WorkHoursRecord, error)
}
