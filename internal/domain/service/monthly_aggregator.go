package service

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dreschagin/support-dashboard/internal/domain/entity"
	"github.com/dreschagin/support-dashboard/internal/domain/report"
	"github.com/dreschagin/support-dashboard/internal/domain/valueobject"
)

const (
	responseSLAMinutes = 120
	closureSLAMinutes  = 2 * 24 * 60
	keywordCloudLimit  = 15
)

var stopwords = map[string]struct{}{}

func init() {
	for _, word := range strings.Fields(`a an and are as at be by for from has have i in is it of on or our please
		re the this to was we with you your fw fwd not can cannot after new issue help need`) {
		stopwords[word] = struct{}{}
	}
}

// MonthlyAggregator строит отчет по тикетам, созданным в календарном месяце (Domain Service)
type MonthlyAggregator struct{}

func NewMonthlyAggregator() *MonthlyAggregator {
	return &MonthlyAggregator{}
}

// Cohort отбирает тикеты, созданные внутри месяца. Порядок входа сохраняется.
func (a *MonthlyAggregator) Cohort(month valueobject.TimeRange, tickets []entity.Ticket) []entity.Ticket {
	cohort := make([]entity.Ticket, 0)
	for _, ticket := range tickets {
		if created, ok := ticket.CreatedAt(); ok && month.Contains(created) {
			cohort = append(cohort, ticket)
		}
	}
	return cohort
}

// Aggregate вычисляет отчет по когорте; billable считается отдельно, так как требует запросов по каждому тикету
func (a *MonthlyAggregator) Aggregate(
	month valueobject.TimeRange,
	cohort []entity.Ticket,
	billable report.BillableHours,
) *report.MonthlyReviewMetrics {
	responses := make([]float64, 0, len(cohort))
	resolutions := make([]float64, 0, len(cohort))
	ratings := make([]float64, 0)
	rows := make([]report.TicketRow, 0, len(cohort))

	for _, ticket := range cohort {
		row := report.TicketRow{
			ID:           ticket.TicketID,
			Number:       ticket.TicketNumber,
			Title:        ticket.TicketTitle,
			Customer:     ticket.CustomerName,
			Status:       ticket.TicketStatus,
			Opened:       ticket.TicketCreatedDate,
			Satisfaction: ticket.Satisfaction(),
		}

		if minutes, ok := FirstResponseMinutes(ticket); ok {
			responses = append(responses, minutes)
			row.FirstResponseMinutes = roundedPtr(minutes)
		}
		if minutes, ok := ResolutionMinutes(ticket); ok {
			resolutions = append(resolutions, minutes)
			row.ResolutionMinutes = roundedPtr(minutes)
		}
		if ticket.SurveyRating != nil {
			ratings = append(ratings, *ticket.SurveyRating)
		}

		rows = append(rows, row)
	}

	if billable.Entries == nil {
		billable.Entries = []report.BillableEntry{}
	}

	total := len(cohort)
	return &report.MonthlyReviewMetrics{
		MonthLabel:              month.MonthLabel(),
		TotalTickets:            total,
		AvgFirstResponseMinutes: report.Round1(mean(responses)),
		AvgResolutionMinutes:    report.Round1(mean(resolutions)),
		SatisfactionScore:       report.Round1(mean(ratings)),
		ResponseWithin2Hours:    slaStat(responses, responseSLAMinutes, total),
		ClosureWithinTwoDays:    slaStat(resolutions, closureSLAMinutes, total),
		BillableHours:           billable,
		KeywordCloud:            KeywordCloud(cohort),
		Tickets:                 rows,
	}
}

// FirstResponseMinutes считает минуты от создания до первого ответа. Отрицательные и неполные отбрасываются
func FirstResponseMinutes(ticket entity.Ticket) (float64, bool) {
	created, ok := ticket.CreatedAt()
	if !ok {
		return 0, false
	}
	responded, ok := ticket.FirstResponseAt()
	if !ok {
		return 0, false
	}
	return nonNegativeMinutes(responded.Sub(created).Minutes())
}

// ResolutionMinutes считает минуты от создания до решения
func ResolutionMinutes(ticket entity.Ticket) (float64, bool) {
	created, ok := ticket.CreatedAt()
	if !ok {
		return 0, false
	}
	resolved, ok := ticket.ResolvedAt()
	if !ok {
		return 0, false
	}
	return nonNegativeMinutes(resolved.Sub(created).Minutes())
}

// KeywordCloud считает частоту слов в заголовках тикетов, top 15
func KeywordCloud(tickets []entity.Ticket) []report.KeywordCount {
	counter := newOrderedCounter()
	for _, ticket := range tickets {
		for _, token := range tokenize(ticket.TicketTitle) {
			counter.add(token)
		}
	}

	top := counter.top(keywordCloudLimit)
	result := make([]report.KeywordCount, 0, len(top))
	for _, kc := range top {
		result = append(result, report.KeywordCount{Label: kc.key, Count: kc.count})
	}
	return result
}

// BillableHours сворачивает записи трудозатрат (в порядке тикетов) в сводку по техникам
func BillableHours(perTicket [][]entity.WorkHoursRecord) report.BillableHours {
	type techMinutes struct {
		name    string
		minutes float64
	}

	var totalMinutes float64
	index := make(map[string]int)
	techs := make([]techMinutes, 0)

	for _, records := range perTicket {
		for _, record := range records {
			minutes := record.BillableMinutes()
			name := labelOr(record.TechnicianFullName, unassignedLabel)

			i, ok := index[name]
			if !ok {
				i = len(techs)
				index[name] = i
				techs = append(techs, techMinutes{name: name})
			}
			techs[i].minutes += minutes
			totalMinutes += minutes
		}
	}

	entries := make([]report.BillableEntry, 0, len(techs))
	for _, tech := range techs {
		entries = append(entries, report.BillableEntry{
			Technician: tech.name,
			Hours:      report.Round1(tech.minutes / 60),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Hours > entries[j].Hours
	})

	return report.BillableHours{
		TotalHours: report.Round1(totalMinutes / 60),
		Entries:    entries,
	}
}

func tokenize(title string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	tokens := make([]string, 0)
	for _, token := range strings.Fields(b.String()) {
		if _, stop := stopwords[token]; stop {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func slaStat(minutes []float64, threshold float64, total int) report.SlaStat {
	count := 0
	for _, m := range minutes {
		if m <= threshold {
			count++
		}
	}

	stat := report.SlaStat{Count: count}
	if total > 0 {
		stat.Percentage = report.Round1(float64(count) / float64(total) * 100)
	}
	return stat
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func nonNegativeMinutes(minutes float64) (float64, bool) {
	if minutes < 0 {
		return 0, false
	}
	return minutes, true
}

func roundedPtr(value float64) *float64 {
	rounded := report.Round1(value)
	return &rounded
}
