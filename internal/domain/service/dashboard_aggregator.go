package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dreschagin/support-dashboard/internal/domain/entity"
	"github.com/dreschagin/support-dashboard/internal/domain/report"
	"github.com/dreschagin/support-dashboard/internal/domain/valueobject"
)

const (
	slaThreshold        = 4 * time.Hour
	technicianLoadLimit = 6
	customerLoadLimit   = 6
	criticalAlertLimit  = 5
	sampleTicketLimit   = 8
	trendDays           = 7
	recentOpenDays      = 30
	newCustomerDays     = 7

	unassignedLabel = "Unassigned"
	unknownStatus   = "Unknown"
)

// DashboardInput содержит четыре коллекции, загруженные параллельно
type DashboardInput struct {
	AllTickets        entity.Collection[entity.Ticket]
	ModifiedToday     entity.Collection[entity.Ticket]
	ModifiedThisMonth entity.Collection[entity.Ticket]
	OpenAlerts        entity.Collection[entity.Alert]
}

// DashboardWindows содержит границы суток и месяца относительно now
type DashboardWindows struct {
	TodayStart time.Time
	MonthStart time.Time
}

// DashboardAggregator сводит коллекции тикетов и алертов в оперативный срез (Domain Service)
type DashboardAggregator struct {
	classifier *StatusClassifier
	location   *time.Location
}

// NewDashboardAggregator создает агрегатор; границы суток считаются в location
func NewDashboardAggregator(classifier *StatusClassifier, location *time.Location) *DashboardAggregator {
	if classifier == nil {
		classifier = DefaultStatusClassifier()
	}
	if location == nil {
		location = time.UTC
	}
	return &DashboardAggregator{classifier: classifier, location: location}
}

// Windows возвращает начало текущих суток и месяца
func (a *DashboardAggregator) Windows(now time.Time) DashboardWindows {
	local := now.In(a.location)
	return DashboardWindows{
		TodayStart: valueobject.DayOf(local).Start(),
		MonthStart: valueobject.MonthOf(local).Start(),
	}
}

// Aggregate вычисляет DashboardMetrics. Входные коллекции не изменяются.
func (a *DashboardAggregator) Aggregate(in DashboardInput, now time.Time) *report.DashboardMetrics {
	windows := a.Windows(now)
	todayStart := windows.TodayStart
	monthStart := windows.MonthStart
	sevenDaysAgo := todayStart.AddDate(0, 0, -newCustomerDays)
	thirtyDaysAgo := todayStart.AddDate(0, 0, -recentOpenDays)

	open := make([]entity.Ticket, 0, len(in.AllTickets.Items))
	for _, ticket := range in.AllTickets.Items {
		if !a.classifier.IsClosed(ticket.TicketStatus) {
			open = append(open, ticket)
		}
	}

	criticalOpen, criticalSample := CriticalAlerts(in.OpenAlerts.Items)

	return &report.DashboardMetrics{
		GeneratedAt:          report.FormatTime(now),
		OpenTotal:            len(open),
		NewToday:             countCreatedSince(in.ModifiedToday.Items, todayStart),
		OpenThisMonth:        countCreatedSince(open, monthStart),
		ClosedThisMonth:      countClosedSince(in.ModifiedThisMonth.Items, monthStart),
		PendingTickets:       a.countPending(open),
		AverageOpenAgeHours:  averageOpenAgeHours(open, thirtyDaysAgo, now),
		SLARiskCount:         countSLARisk(open, now),
		TechnicianLoad:       technicianLoad(open),
		TrendSevenDay:        trend(in.ModifiedThisMonth.Items, todayStart.AddDate(0, 0, -(trendDays-1)), trendDays),
		NewTicketsByCustomer: customerLoads(in.ModifiedThisMonth.Items, sevenDaysAgo),
		StatusBreakdown:      a.statusBreakdown(open),
		CriticalAlertsOpen:   criticalOpen,
		CriticalAlertsSample: criticalSample,
		SampleOpenTickets:    sampleOpenTickets(open),
	}
}

func countCreatedSince(tickets []entity.Ticket, since time.Time) int {
	count := 0
	for _, ticket := range tickets {
		if created, ok := ticket.CreatedAt(); ok && !created.Before(since) {
			count++
		}
	}
	return count
}

// countClosedSince проверяет статус буквально по словам closed/resolved,
// независимо от настроенного классификатора
func countClosedSince(tickets []entity.Ticket, since time.Time) int {
	count := 0
	for _, ticket := range tickets {
		resolved, ok := ticket.ResolvedAt()
		if !ok || resolved.Before(since) {
			continue
		}
		status := strings.ToLower(ticket.TicketStatus)
		if strings.Contains(status, "closed") || strings.Contains(status, "resolved") {
			count++
		}
	}
	return count
}

func (a *DashboardAggregator) countPending(open []entity.Ticket) int {
	count := 0
	for _, ticket := range open {
		if a.classifier.IsPending(ticket.TicketStatus) {
			count++
		}
	}
	return count
}

func averageOpenAgeHours(open []entity.Ticket, since, now time.Time) float64 {
	var total float64
	recent := 0
	for _, ticket := range open {
		created, ok := ticket.CreatedAt()
		if !ok || created.Before(since) {
			continue
		}
		total += now.Sub(created).Hours()
		recent++
	}

	if recent == 0 {
		return 0
	}
	return report.Round1(total / float64(recent))
}

func countSLARisk(open []entity.Ticket, now time.Time) int {
	count := 0
	for _, ticket := range open {
		due, ok := ticket.SLADueAt()
		if !ok {
			continue
		}
		diff := due.Sub(now)
		if diff <= slaThreshold && diff >= -slaThreshold {
			count++
		}
	}
	return count
}

func technicianLoad(open []entity.Ticket) []report.TechnicianWorkload {
	counter := newOrderedCounter()
	for _, ticket := range open {
		counter.add(labelOr(ticket.TechnicianFullName, unassignedLabel))
	}

	top := counter.top(technicianLoadLimit)
	result := make([]report.TechnicianWorkload, 0, len(top))
	for _, kc := range top {
		result = append(result, report.TechnicianWorkload{Technician: kc.key, Count: kc.count})
	}
	return result
}

func trend(tickets []entity.Ticket, windowStart time.Time, days int) []report.TrendPoint {
	points := make([]report.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := windowStart.AddDate(0, 0, i)
		dayEnd := day.AddDate(0, 0, 1)

		point := report.TrendPoint{Date: report.FormatTime(day)}
		for _, ticket := range tickets {
			if created, ok := ticket.CreatedAt(); ok && inWindow(created, day, dayEnd) {
				point.Opened++
			}
			if resolved, ok := ticket.ResolvedAt(); ok && inWindow(resolved, day, dayEnd) {
				point.Closed++
			}
		}
		points = append(points, point)
	}
	return points
}

func customerLoads(tickets []entity.Ticket, since time.Time) []report.CustomerTicketLoad {
	counter := newOrderedCounter()
	for _, ticket := range tickets {
		created, ok := ticket.CreatedAt()
		if !ok || created.Before(since) {
			continue
		}
		counter.add(labelOr(ticket.CustomerName, unassignedLabel))
	}

	top := counter.top(customerLoadLimit)
	result := make([]report.CustomerTicketLoad, 0, len(top))
	for _, kc := range top {
		result = append(result, report.CustomerTicketLoad{Customer: kc.key, Count: kc.count})
	}
	return result
}

func (a *DashboardAggregator) statusBreakdown(open []entity.Ticket) []report.TicketStatusSummary {
	counter := newOrderedCounter()
	for _, ticket := range open {
		status := labelOr(ticket.TicketStatus, unknownStatus)
		if a.classifier.IsClosed(status) {
			continue
		}
		counter.add(status)
	}

	all := counter.top(0)
	result := make([]report.TicketStatusSummary, 0, len(all))
	for _, kc := range all {
		result = append(result, report.TicketStatusSummary{Status: kc.key, Count: kc.count})
	}
	return result
}

// CriticalAlerts возвращает общее число критических алертов и последние из них
func CriticalAlerts(alerts []entity.Alert) (int, []report.AlertSummary) {
	critical := make([]entity.Alert, 0)
	for _, alert := range alerts {
		if alert.IsCritical() {
			critical = append(critical, alert)
		}
	}

	// Алерты без даты считаются созданными в начале эпохи
	sort.SliceStable(critical, func(i, j int) bool {
		return alertMillis(critical[i]) > alertMillis(critical[j])
	})

	limit := len(critical)
	if limit > criticalAlertLimit {
		limit = criticalAlertLimit
	}

	sample := make([]report.AlertSummary, 0, limit)
	for _, alert := range critical[:limit] {
		sample = append(sample, report.AlertSummary{
			ID:        alert.AlertID,
			Title:     alert.Title,
			Customer:  alert.CustomerName,
			Device:    alert.DeviceName,
			CreatedAt: alert.Created,
		})
	}
	return len(critical), sample
}

func sampleOpenTickets(open []entity.Ticket) []report.TicketSummary {
	sorted := append([]entity.Ticket(nil), open...)

	// Тикеты без даты создания уходят в конец
	sort.SliceStable(sorted, func(i, j int) bool {
		return ticketCreatedMillis(sorted[i]) < ticketCreatedMillis(sorted[j])
	})

	if len(sorted) > sampleTicketLimit {
		sorted = sorted[:sampleTicketLimit]
	}

	result := make([]report.TicketSummary, 0, len(sorted))
	for _, ticket := range sorted {
		result = append(result, report.TicketSummary{
			ID:        ticket.TicketID,
			Number:    ticket.TicketNumber,
			Title:     ticket.TicketTitle,
			Customer:  ticket.CustomerName,
			Status:    ticket.TicketStatus,
			CreatedAt: ticket.TicketCreatedDate,
		})
	}
	return result
}

func alertMillis(alert entity.Alert) int64 {
	if created, ok := alert.CreatedAt(); ok {
		return created.UnixMilli()
	}
	return 0
}

func ticketCreatedMillis(ticket entity.Ticket) int64 {
	if created, ok := ticket.CreatedAt(); ok {
		return created.UnixMilli()
	}
	return math.MaxInt64
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func labelOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
