package entity

import "time"

// Ticket представляет тикет в том виде, в котором его отдает API.
// Снимок состояния upstream, после получения не изменяется.
type Ticket struct {
	TicketID             int64    `json:"TicketID"`
	TicketNumber         string   `json:"TicketNumber,omitempty"`
	TicketTitle          string   `json:"TicketTitle,omitempty"`
	TicketStatus         string   `json:"TicketStatus,omitempty"`
	CustomerName         string   `json:"CustomerName,omitempty"`
	TechnicianFullName   string   `json:"TechnicianFullName,omitempty"`
	TicketCreatedDate    string   `json:"TicketCreatedDate,omitempty"`
	TicketResolvedDate   string   `json:"TicketResolvedDate,omitempty"`
	FirstResponseDate    string   `json:"FirstResponseDate,omitempty"`
	FirstResponseDueDate string   `json:"FirstResponseDueDate,omitempty"`
	ClosedTicketDueDate  string   `json:"ClosedTicketDueDate,omitempty"`
	SatisfactionScore    *float64 `json:"SatisfactionScore,omitempty"`
	SurveyRating         *float64 `json:"SurveyRating,omitempty"`
}

// CreatedAt возвращает время создания тикета
func (t Ticket) CreatedAt() (time.Time, bool) {
	return ParseTimestamp(t.TicketCreatedDate)
}

// ResolvedAt возвращает время решения тикета
func (t Ticket) ResolvedAt() (time.Time, bool) {
	return ParseTimestamp(t.TicketResolvedDate)
}

// FirstResponseAt возвращает время первого комментария техника
func (t Ticket) FirstResponseAt() (time.Time, bool) {
	return ParseTimestamp(t.FirstResponseDate)
}

// SLADueAt возвращает срок первого ответа, а если его нет, срок закрытия
func (t Ticket) SLADueAt() (time.Time, bool) {
	if t.FirstResponseDueDate != "" {
		return ParseTimestamp(t.FirstResponseDueDate)
	}
	return ParseTimestamp(t.ClosedTicketDueDate)
}

// Satisfaction возвращает оценку тикета: SatisfactionScore, иначе SurveyRating
func (t Ticket) Satisfaction() *float64 {
	if t.SatisfactionScore != nil {
		return t.SatisfactionScore
	}
	return t.SurveyRating
}
