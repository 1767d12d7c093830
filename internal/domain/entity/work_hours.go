package entity

// WorkHoursRecord описывает запись о трудозатратах по одному тикету
type WorkHoursRecord struct {
	WorkHoursID             int64    `json:"WorkHoursID"`
	TechnicianFullName      string   `json:"TechnicianFullName,omitempty"`
	BillableDurationMinutes *float64 `json:"BillableDurationMinutes,omitempty"`
	TotalDurationMinutes    *float64 `json:"TotalDurationMinutes,omitempty"`
	Billable                bool     `json:"Billable"`
}

// BillableMinutes возвращает оплачиваемые минуты: явное поле, иначе общая длительность
// для записей с флагом Billable, иначе 0
func (r WorkHoursRecord) BillableMinutes() float64 {
	if r.BillableDurationMinutes != nil {
		return *r.BillableDurationMinutes
	}
	if r.Billable && r.TotalDurationMinutes != nil {
		return *r.TotalDurationMinutes
	}
	return 0
}
