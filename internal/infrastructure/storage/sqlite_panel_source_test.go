package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

func openTestDB(t *testing.T) *SQLitePanelSource {
	t.Helper()
	s, err := OpenSQLitePanelSource(context.Background(), filepath.Join(t.TempDir(), "data", "misbar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLitePanelSource_RoundTrip(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, samplePanels()...))

	got, err := s.ListPanels(ctx, port.PanelQuery{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, int64(1), got[0].ID)
	require.True(t, got[0].Timestamp.Equal(base))
	require.Equal(t, samplePanels()[1].Defects, got[0].Defects)
	require.Empty(t, got[1].Defects)
	require.Equal(t, entity.SystemIR, got[2].SystemType)
}

func TestSQLitePanelSource_Query(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, samplePanels()...))

	to := base.Add(90 * time.Minute)
	got, err := s.ListPanels(ctx, port.PanelQuery{To: &to, SystemType: "el"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Len(t, got[0].Defects, 1)

	from := base.Add(time.Hour)
	got, err = s.ListPanels(ctx, port.PanelQuery{From: &from, SystemType: entity.SystemAll})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestSQLitePanelSource_SaveReplacesDefects(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, samplePanels()...))

	p, err := s.GetPanel(ctx, 1)
	require.NoError(t, err)
	p.Defects = append(p.Defects, entity.Defect{TypeKey: "connector_corrosion", Severity: entity.SeverityMedium})
	p.Status = entity.StatusFailed
	require.NoError(t, s.Save(ctx, *p))

	again, err := s.GetPanel(ctx, 1)
	require.NoError(t, err)
	require.Len(t, again.Defects, 2)
	require.Equal(t, "connector_corrosion", again.Defects[1].TypeKey)

	_, err = s.GetPanel(ctx, 404)
	require.ErrorIs(t, err, port.ErrPanelNotFound)
}
