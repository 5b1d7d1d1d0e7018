package fixture

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"misbar/internal/domain/entity"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestDefault(t *testing.T) {
	panels := Default(now)
	require.Len(t, panels, 9)

	first := panels[0]
	assert.Equal(t, int64(2001), first.ID)
	assert.Equal(t, entity.SystemEL, first.SystemType)
	assert.Equal(t, time.Date(2024, 5, 21, 14, 22, 15, 0, time.UTC), first.Timestamp.UTC())
	require.Len(t, first.Defects, 5)
	assert.Equal(t, entity.SeverityCritical, first.Defects[0].Severity)
	assert.Equal(t, entity.SeverityMedium, first.Defects[3].Severity)

	byID := make(map[int64]entity.Panel)
	for _, p := range panels {
		byID[p.ID] = p
	}
	assert.Equal(t, now.Add(-72*time.Hour), byID[2003].Timestamp)
	assert.Equal(t, now, byID[2005].Timestamp)
	assert.Equal(t, entity.SystemIR, byID[3002].SystemType)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"bad yaml":   "panels: [",
		"no time":    "panels:\n  - {id: 1, system_type: EL, status: passed}\n",
		"both times": "panels:\n  - {id: 1, system_type: EL, status: passed, age: 1h, timestamp: 2024-01-01T00:00:00Z}\n",
		"bad age":    "panels:\n  - {id: 1, system_type: EL, status: passed, age: yesterday}\n",
		"bad system": "panels:\n  - {id: 1, system_type: UV, status: passed, age: 1h}\n",
		"bad status": "panels:\n  - {id: 1, system_type: EL, status: unknown, age: 1h}\n",
		"bad health": "panels:\n  - {id: 1, system_type: EL, status: passed, age: 1h, health_score: 120}\n",
		"duplicate":  "panels:\n  - {id: 1, system_type: EL, status: passed, age: 1h}\n  - {id: 1, system_type: IR, status: passed, age: 2h}\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data), now)
			require.ErrorIs(t, err, ErrInvalidFixture)
		})
	}
}

func TestParse_KeepsExplicitSeverityForUnknownTypes(t *testing.T) {
	data := "panels:\n  - id: 7\n    system_type: ir\n    status: failed\n    age: 1h\n    defects:\n      - {type: delamination, severity: high}\n      - {type: mystery}\n"
	panels, err := Parse([]byte(data), now)
	require.NoError(t, err)
	require.Len(t, panels[0].Defects, 2)
	assert.Equal(t, entity.SeverityHigh, panels[0].Defects[0].Severity)
	assert.Equal(t, entity.SeverityLow, panels[0].Defects[1].Severity)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.yaml")
	require.NoError(t, os.WriteFile(path, []byte("panels:\n  - {id: 5, serial_number: SN-5, system_type: EL, status: passed, age: 30m}\n"), 0o644))

	panels, err := Load(path, now)
	require.NoError(t, err)
	require.Len(t, panels, 1)
	assert.Equal(t, now.Add(-30*time.Minute), panels[0].Timestamp)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), now)
	require.Error(t, err)
}
