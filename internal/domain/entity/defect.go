package entity

import (
	"image"
	"math"
)

// Severity уровень критичности дефекта
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsAlerting сообщает, попадает ли дефект в блок критических тревог.
func (s Severity) IsAlerting() bool {
	return s == SeverityCritical || s == SeverityHigh
}

// Valid проверяет, что значение входит в известный набор.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// BoundingBox область дефекта в процентах от размеров изображения
type BoundingBox struct {
	X      float64 `json:"x" yaml:"x"` // левый край, %
	Y      float64 `json:"y" yaml:"y"` // верхний край, %
	Width  float64 `json:"w" yaml:"w"` // ширина, %
	Height float64 `json:"h" yaml:"h"` // высота, %
}

// Center возвращает координаты центра области
func (b BoundingBox) Center() (x, y float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Pixels переводит проценты в пиксельный прямоугольник для изображения w×h.
// Результат обрезается по границам изображения.
func (b BoundingBox) Pixels(w, h int) image.Rectangle {
	x0 := int(math.Round(b.X / 100 * float64(w)))
	y0 := int(math.Round(b.Y / 100 * float64(h)))
	x1 := int(math.Round((b.X + b.Width) / 100 * float64(w)))
	y1 := int(math.Round((b.Y + b.Height) / 100 * float64(h)))
	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, w, h))
}

// Defect один найденный дефект на панели
type Defect struct {
	TypeKey  string      `json:"type"`
	Severity Severity    `json:"severity"`
	Location BoundingBox `json:"location"`
}
