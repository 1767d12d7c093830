package valueobject

import (
	"errors"
	"fmt"
	"time"
)

const monthKeyLayout = "2006-01"

// TimeRange представляет полуоткрытый временной диапазон [start, end) (Value Object)
// Иммутабельный объект
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange создает новый TimeRange с валидацией
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, errors.New("start and end times cannot be zero")
	}

	if !start.Before(end) {
		return TimeRange{}, errors.New("start time must be before end time")
	}

	return TimeRange{
		start: start,
		end:   end,
	}, nil
}

// ParseMonth строит диапазон календарного месяца в UTC по ключу "YYYY-MM"
func ParseMonth(key string) (TimeRange, error) {
	start, err := time.ParseInLocation(monthKeyLayout, key, time.UTC)
	if err != nil {
		return TimeRange{}, fmt.Errorf("invalid month %q: expected YYYY-MM", key)
	}
	return MonthOf(start), nil
}

// MonthOf возвращает месяц, в который попадает t, в часовом поясе t
func MonthOf(t time.Time) TimeRange {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return TimeRange{start: start, end: start.AddDate(0, 1, 0)}
}

// DayOf возвращает сутки, в которые попадает t, в часовом поясе t
func DayOf(t time.Time) TimeRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return TimeRange{start: start, end: start.AddDate(0, 0, 1)}
}

// Start возвращает начальное время
func (tr TimeRange) Start() time.Time {
	return tr.start
}

// End возвращает конечное время (не входит в диапазон)
func (tr TimeRange) End() time.Time {
	return tr.end
}

// Duration возвращает длительность диапазона
func (tr TimeRange) Duration() time.Duration {
	return tr.end.Sub(tr.start)
}

// Contains проверяет, попадает ли указанное время в диапазон
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.start) && t.Before(tr.end)
}

// MonthKey возвращает ключ месяца начала диапазона, например "2025-01"
func (tr TimeRange) MonthKey() string {
	return tr.start.Format(monthKeyLayout)
}

// MonthLabel возвращает подпись месяца, например "January 2025"
func (tr TimeRange) MonthLabel() string {
	return tr.start.Format("January 2006")
}
