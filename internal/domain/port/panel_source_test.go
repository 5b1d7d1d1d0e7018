package port

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"misbar/internal/domain/entity"
)

func TestPanelQueryMatches(t *testing.T) {
	ts := time.Date(2024, 5, 21, 14, 0, 0, 0, time.UTC)
	p := entity.Panel{Timestamp: ts, SystemType: entity.SystemIR}

	require.True(t, PanelQuery{}.Matches(p))
	require.True(t, PanelQuery{From: &ts, To: &ts}.Matches(p))

	later := ts.Add(time.Minute)
	require.False(t, PanelQuery{From: &later}.Matches(p))

	earlier := ts.Add(-time.Minute)
	require.False(t, PanelQuery{To: &earlier}.Matches(p))

	require.False(t, PanelQuery{SystemType: entity.SystemEL}.Matches(p))
	require.True(t, PanelQuery{SystemType: entity.SystemAll}.Matches(p))
}
