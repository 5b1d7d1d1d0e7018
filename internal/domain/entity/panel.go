package entity

import (
	"strings"
	"time"
)

// PanelStatus итог проверки панели
type PanelStatus string

const (
	StatusPassed PanelStatus = "passed"
	StatusFailed PanelStatus = "failed"
)

// SystemType тип камеры на линии
type SystemType string

const (
	SystemEL  SystemType = "EL" // электролюминесценция
	SystemIR  SystemType = "IR" // инфракрасная съёмка
	SystemAll SystemType = "all"
)

// ParseSystemType нормализует пользовательский ввод ("el", "IR", "all", "").
func ParseSystemType(s string) (SystemType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL":
		return SystemAll, true
	case "EL":
		return SystemEL, true
	case "IR":
		return SystemIR, true
	}
	return "", false
}

// Matches сообщает, проходит ли тип системы через фильтр.
// Пустой фильтр и "all" пропускают всё.
func (f SystemType) Matches(t SystemType) bool {
	if f == "" || strings.EqualFold(string(f), string(SystemAll)) {
		return true
	}
	return strings.EqualFold(string(f), string(t))
}

// Panel результат проверки одной солнечной панели.
// После создания не изменяется.
type Panel struct {
	ID           int64       `json:"id"`
	SerialNumber string      `json:"serial_number"`
	Timestamp    time.Time   `json:"timestamp"`
	SystemType   SystemType  `json:"system_type"`
	Status       PanelStatus `json:"status"`
	HealthScore  float64     `json:"health_score"`
	ImageURL     string      `json:"image_url,omitempty"`
	Defects      []Defect    `json:"defects"`
}

// Clone возвращает копию панели с собственным срезом дефектов.
func (p Panel) Clone() Panel {
	if p.Defects != nil {
		p.Defects = append([]Defect(nil), p.Defects...)
	}
	return p
}

// Passed сообщает, прошла ли панель проверку
func (p Panel) Passed() bool {
	return p.Status == StatusPassed
}
