package report

import "math"

type SlaStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type BillableEntry struct {
	Technician string  `json:"technician"`
	Hours      float64 `json:"hours"`
}

type BillableHours struct {
	TotalHours float64         `json:"totalHours"`
	Entries    []BillableEntry `json:"entries"`
}

type KeywordCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type TicketRow struct {
	ID                   int64    `json:"id"`
	Number               string   `json:"number,omitempty"`
	Title                string   `json:"title,omitempty"`
	Customer             string   `json:"customer,omitempty"`
	Status               string   `json:"status,omitempty"`
	Opened               string   `json:"opened,omitempty"`
	FirstResponseMinutes *float64 `json:"firstResponseMinutes,omitempty"`
	ResolutionMinutes    *float64 `json:"resolutionMinutes,omitempty"`
	Satisfaction         *float64 `json:"satisfaction,omitempty"`
}

// MonthlyReviewMetrics представляет отчет по когорте тикетов, созданных в календарном месяце
type MonthlyReviewMetrics struct {
	MonthLabel              string         `json:"monthLabel"`
	TotalTickets            int            `json:"totalTickets"`
	AvgFirstResponseMinutes float64        `json:"avgFirstResponseMinutes"`
	AvgResolutionMinutes    float64        `json:"avgResolutionMinutes"`
	SatisfactionScore       float64        `json:"satisfactionScore"`
	ResponseWithin2Hours    SlaStat        `json:"responseWithin2Hours"`
	ClosureWithinTwoDays    SlaStat        `json:"closureWithinTwoDays"`
	BillableHours           BillableHours  `json:"billableHours"`
	KeywordCloud            []KeywordCount `json:"keywordCloud"`
	Tickets                 []TicketRow    `json:"tickets"`
}

// DefaultMonthlyReviewMetrics возвращает пустой отчет, который показывается, когда данных нет
func DefaultMonthlyReviewMetrics() *MonthlyReviewMetrics {
	return &MonthlyReviewMetrics{
		MonthLabel:    "Current Month",
		BillableHours: BillableHours{Entries: []BillableEntry{}},
		KeywordCloud:  []KeywordCount{},
		Tickets:       []TicketRow{},
	}
}

// Round1 округляет до одного знака после запятой
func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}
