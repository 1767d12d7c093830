package entity

import (
	"strings"
	"time"
)

const SeverityCritical = "critical"

// Alert представляет открытый алерт мониторинга
type Alert struct {
	AlertID      int64  `json:"AlertID"`
	Title        string `json:"Title,omitempty"`
	Severity     string `json:"Severity,omitempty"`
	Created      string `json:"Created,omitempty"`
	CustomerName string `json:"CustomerName,omitempty"`
	DeviceName   string `json:"DeviceName,omitempty"`
}

// CreatedAt возвращает время создания алерта
func (a Alert) CreatedAt() (time.Time, bool) {
	return ParseTimestamp(a.Created)
}

// IsCritical проверяет severity без учета регистра
func (a Alert) IsCritical() bool {
	return strings.EqualFold(strings.TrimSpace(a.Severity), SeverityCritical)
}
