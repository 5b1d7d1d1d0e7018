package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
	"misbar/internal/infrastructure/storage"
)

func newGallery(t *testing.T) *GalleryService {
	t.Helper()
	src := storage.NewMemoryPanelSource(
		panel(1, "SN-H7-001", entity.SystemEL, base.Add(-3*time.Hour), "cell_crack", "connector_corrosion"),
		panel(2, "SN-H7-002", entity.SystemEL, base.Add(-time.Hour)),
		panel(3, "SN-IR-003", entity.SystemIR, base.Add(-40*24*time.Hour), "cell"),
		panel(4, "SN-IR-004", entity.SystemIR, base.Add(-2*time.Hour), "mystery"),
	)
	svc := NewGalleryService(src, nil, time.UTC)
	svc.now = fixedClock(base)
	return svc
}

func ids(panels []entity.Panel) []int64 {
	out := make([]int64, 0, len(panels))
	for _, p := range panels {
		out = append(out, p.ID)
	}
	return out
}

func TestGalleryService_Search(t *testing.T) {
	svc := newGallery(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query GalleryQuery
		want  []int64
	}{
		{"all newest first", GalleryQuery{}, []int64{2, 4, 1, 3}},
		{"term case-insensitive", GalleryQuery{Term: " ir "}, []int64{4, 3}},
		{"system filter", GalleryQuery{SystemType: entity.SystemEL}, []int64{2, 1}},
		{"preset today", GalleryQuery{Preset: entity.PresetToday}, []int64{2, 4, 1}},
		{"preset all", GalleryQuery{Preset: entity.PresetAll, Term: "003"}, []int64{3}},
		{"no match", GalleryQuery{Term: "zzz"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestGalleryService_SearchUnknownPreset(t *testing.T) {
	svc := newGallery(t)
	_, err := svc.Search(context.Background(), GalleryQuery{Preset: "decade"})
	require.ErrorIs(t, err, entity.ErrUnknownPreset)
}

func TestGalleryService_Panel(t *testing.T) {
	svc := newGallery(t)
	ctx := context.Background()

	detail, err := svc.Panel(ctx, 1, catalog.LocaleEN)
	require.NoError(t, err)
	require.Len(t, detail.Defects, 2)
	assert.Equal(t, "Cell Crack", detail.Defects[0].DisplayName)
	assert.Equal(t, "#EF4444", detail.Defects[0].Color)
	assert.Equal(t, entity.SeverityCritical, detail.Defects[0].Severity)
	assert.Equal(t, entity.SeverityMedium, detail.Defects[1].Severity)

	detail, err = svc.Panel(ctx, 4, catalog.LocaleAR)
	require.NoError(t, err)
	require.Len(t, detail.Defects, 1)
	assert.Equal(t, "mystery", detail.Defects[0].DisplayName)
	assert.Equal(t, catalog.UnknownColor, detail.Defects[0].Color)
	assert.Equal(t, entity.SeverityLow, detail.Defects[0].Severity)

	_, err = svc.Panel(ctx, 99, catalog.LocaleEN)
	require.ErrorIs(t, err, port.ErrPanelNotFound)
}
