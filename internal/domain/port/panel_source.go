package port

import (
	"context"
	"errors"
	"time"

	"misbar/internal/domain/entity"
)

// ErrPanelNotFound панель с таким ID отсутствует
var ErrPanelNotFound = errors.New("panel not found")

// PanelQuery предварительный отбор панелей на стороне источника.
// Нулевые поля не ограничивают выборку.
type PanelQuery struct {
	From       *time.Time
	To         *time.Time
	SystemType entity.SystemType
}

// Matches проверяет панель по условиям запроса
func (q PanelQuery) Matches(p entity.Panel) bool {
	if q.From != nil && p.Timestamp.Before(*q.From) {
		return false
	}
	if q.To != nil && p.Timestamp.After(*q.To) {
		return false
	}
	return q.SystemType.Matches(p.SystemType)
}

// PanelSource источник проверенных панелей (фикстура, база, конвейер)
type PanelSource interface {
	// ListPanels возвращает копии панелей, упорядоченные по времени проверки
	ListPanels(ctx context.Context, q PanelQuery) ([]entity.Panel, error)

	// GetPanel возвращает панель по ID или ErrPanelNotFound
	GetPanel(ctx context.Context, id int64) (*entity.Panel, error)
}
