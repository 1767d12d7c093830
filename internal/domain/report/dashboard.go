package report

import "time"

// ISOLayout задает формат дат в отчетах: UTC с миллисекундами
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime форматирует момент времени для JSON отчетов
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

type TicketSummary struct {
	ID        int64  `json:"id"`
	Number    string `json:"number,omitempty"`
	Title     string `json:"title,omitempty"`
	Customer  string `json:"customer,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type TechnicianWorkload struct {
	Technician string `json:"technician"`
	Count      int    `json:"count"`
}

type TrendPoint struct {
	Date   string `json:"date"`
	Opened int    `json:"opened"`
	Closed int    `json:"closed"`
}

type CustomerTicketLoad struct {
	Customer string `json:"customer"`
	Count    int    `json:"count"`
}

type TicketStatusSummary struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type AlertSummary struct {
	ID        int64  `json:"id"`
	Title     string `json:"title,omitempty"`
	Customer  string `json:"customer,omitempty"`
	Device    string `json:"device,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// DashboardMetrics представляет оперативный срез по тикетам и алертам.
// Формат совпадает с JSON фикстурой дашборда.
type DashboardMetrics struct {
	GeneratedAt          string                `json:"generatedAt"`
	OpenTotal            int                   `json:"openTotal"`
	OpenThisMonth        int                   `json:"openThisMonth"`
	NewToday             int                   `json:"newToday"`
	ClosedThisMonth      int                   `json:"closedThisMonth"`
	PendingTickets       int                   `json:"pendingTickets"`
	AverageOpenAgeHours  float64               `json:"averageOpenAgeHours"`
	SLARiskCount         int                   `json:"slaRiskCount"`
	TechnicianLoad       []TechnicianWorkload  `json:"technicianLoad"`
	TrendSevenDay        []TrendPoint          `json:"trendSevenDay"`
	NewTicketsByCustomer []CustomerTicketLoad  `json:"newTicketsByCustomer"`
	StatusBreakdown      []TicketStatusSummary `json:"statusBreakdown"`
	CriticalAlertsOpen   int                   `json:"criticalAlertsOpen"`
	CriticalAlertsSample []AlertSummary        `json:"criticalAlertsSample"`
	SampleOpenTickets    []TicketSummary       `json:"sampleOpenTickets"`
}
