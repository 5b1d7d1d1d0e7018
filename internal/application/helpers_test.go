package app

import (
	"context"
	"errors"
	"time"

	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

var base = time.Date(2024, 5, 21, 15, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func panel(id int64, serial string, system entity.SystemType, ts time.Time, defects ...string) entity.Panel {
	p := entity.Panel{
		ID:           id,
		SerialNumber: serial,
		Timestamp:    ts,
		SystemType:   system,
		Status:       entity.StatusPassed,
		HealthScore:  99,
	}
	for _, key := range defects {
		p.Defects = append(p.Defects, entity.Defect{TypeKey: key})
	}
	if len(p.Defects) > 0 {
		p.Status = entity.StatusFailed
		p.HealthScore = 92
	}
	return p
}

var errSourceDown = errors.New("source down")

type failingSource struct{}

func (failingSource) ListPanels(context.Context, port.PanelQuery) ([]entity.Panel, error) {
	return nil, errSourceDown
}

func (failingSource) GetPanel(context.Context, int64) (*entity.Panel, error) {
	return nil, errSourceDown
}
