package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

var base = time.Date(2024, 5, 21, 14, 0, 0, 0, time.UTC)

func samplePanels() []entity.Panel {
	return []entity.Panel{
		{ID: 3, SerialNumber: "SN-IR-3", Timestamp: base.Add(2 * time.Hour), SystemType: entity.SystemIR, Status: entity.StatusPassed, HealthScore: 99.8},
		{ID: 1, SerialNumber: "SN-EL-1", Timestamp: base, SystemType: entity.SystemEL, Status: entity.StatusFailed, HealthScore: 92.6,
			Defects: []entity.Defect{{TypeKey: "cell_crack", Severity: entity.SeverityCritical, Location: entity.BoundingBox{X: 68.6, Y: 5, Width: 6.5, Height: 10.5}}}},
		{ID: 2, SerialNumber: "SN-EL-2", Timestamp: base.Add(time.Hour), SystemType: entity.SystemEL, Status: entity.StatusPassed, HealthScore: 100},
	}
}

func TestMemoryPanelSource_ListOrderedAndFiltered(t *testing.T) {
	s := NewMemoryPanelSource(samplePanels()...)
	ctx := context.Background()

	all, err := s.ListPanels(ctx, port.PanelQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

	from := base.Add(30 * time.Minute)
	el, err := s.ListPanels(ctx, port.PanelQuery{From: &from, SystemType: entity.SystemEL})
	require.NoError(t, err)
	require.Len(t, el, 1)
	require.Equal(t, int64(2), el[0].ID)
}

func TestMemoryPanelSource_ReturnsCopies(t *testing.T) {
	s := NewMemoryPanelSource(samplePanels()...)
	ctx := context.Background()

	p, err := s.GetPanel(ctx, 1)
	require.NoError(t, err)
	p.Defects[0].TypeKey = "mutated"

	again, err := s.GetPanel(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "cell_crack", again.Defects[0].TypeKey)
}

func TestMemoryPanelSource_AddReplacesByID(t *testing.T) {
	s := NewMemoryPanelSource(samplePanels()...)
	s.Add(entity.Panel{ID: 2, SerialNumber: "SN-EL-2b", Timestamp: base})

	p, err := s.GetPanel(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "SN-EL-2b", p.SerialNumber)

	_, err = s.GetPanel(context.Background(), 42)
	require.ErrorIs(t, err, port.ErrPanelNotFound)
}

func TestMemoryPanelSource_CancelledContext(t *testing.T) {
	s := NewMemoryPanelSource(samplePanels()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListPanels(ctx, port.PanelQuery{})
	require.ErrorIs(t, err, context.Canceled)
}
