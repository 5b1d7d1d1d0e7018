package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "misbar/internal/application"
	"misbar/internal/domain/entity"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PANEL_SOURCE", "fixture")
	t.Setenv("PANEL_FIXTURE", "")
	t.Setenv("DEFAULT_LOCALE", "en")
	t.Setenv("TIMEZONE", "UTC")
	color.NoColor = true

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"dashboard", "gallery", "catalog", "seed"} {
		assert.Contains(t, out, sub)
	}
}

func TestUnknownFormat(t *testing.T) {
	_, err := execute(t, "catalog", "--format", "xml")
	require.ErrorContains(t, err, "unknown format")
}

func TestDashboard_Table(t *testing.T) {
	out, err := execute(t, "dashboard", "--start", "2024-05-21", "--end", "2024-05-21")
	require.NoError(t, err)
	assert.Contains(t, out, "(hour)")
	assert.Contains(t, out, "CONFORMANCE")
	assert.Contains(t, out, "Cell Crack")
	assert.Contains(t, out, "SN-H7-20240118")
	assert.Contains(t, out, "2PM")
}

func TestDashboard_JSON(t *testing.T) {
	out, err := execute(t, "dashboard", "--format", "json", "--start", "2024-05-21T00:00:00Z", "--end", "2024-05-21T23:59:59Z", "--system", "ir")
	require.NoError(t, err)

	var m entity.DashboardMetrics
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, 1, m.Stats.Total)
	assert.Equal(t, 1, m.Stats.Failed)
	require.Len(t, m.DefectRanking, 1)
	assert.Equal(t, "cell", m.DefectRanking[0].TypeKey)
}

func TestDashboard_Year(t *testing.T) {
	out, err := execute(t, "dashboard", "--format", "json", "--year", "2023")
	require.NoError(t, err)

	var m entity.DashboardMetrics
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.True(t, m.Range.Start.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, m.Range.End.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)))
	assert.Equal(t, entity.GranularityMonth, m.Granularity)

	out, err = execute(t, "dashboard", "--format", "json", "--year", "2023", "--preset", "month")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.True(t, m.Range.Start.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.January, m.Range.End.Month())
}

func TestDashboard_Errors(t *testing.T) {
	_, err := execute(t, "dashboard", "--start", "2024-05-22", "--end", "2024-05-21")
	var rangeErr *entity.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)

	_, err = execute(t, "dashboard", "--start", "2024-05-22")
	require.ErrorContains(t, err, "together")

	_, err = execute(t, "dashboard", "--preset", "decade")
	require.ErrorIs(t, err, entity.ErrUnknownPreset)

	_, err = execute(t, "dashboard", "--system", "uv")
	require.ErrorContains(t, err, "unknown system type")

	_, err = execute(t, "dashboard", "--year=-1")
	require.ErrorIs(t, err, app.ErrInvalidYear)
}

func TestGallery(t *testing.T) {
	out, err := execute(t, "gallery", "sn-ir")
	require.NoError(t, err)
	assert.Contains(t, out, "SN-IR-20240219")
	assert.NotContains(t, out, "SN-H7")

	out, err = execute(t, "gallery", "--format", "json", "--system", "el")
	require.NoError(t, err)
	var panels []entity.Panel
	require.NoError(t, json.Unmarshal([]byte(out), &panels))
	assert.Len(t, panels, 6)
}

func TestCatalog(t *testing.T) {
	out, err := execute(t, "catalog", "--system", "ir")
	require.NoError(t, err)
	assert.Contains(t, out, "Hot Cell")
	assert.NotContains(t, out, "cell_crack")

	out, err = execute(t, "catalog", "--locale", "ar", "--format", "json")
	require.NoError(t, err)
	var rows []catalogRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 25)
	assert.Contains(t, out, "كسر خلايا")
}

func TestSeedThenReadFromSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "misbar.db")

	out, err := execute(t, "seed", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 9 panels")

	out, err = execute(t, "gallery", "--source", "sqlite", "--db", db, "--format", "json")
	require.NoError(t, err)
	var panels []entity.Panel
	require.NoError(t, json.Unmarshal([]byte(out), &panels))
	assert.Len(t, panels, 9)
}

func TestUnknownSource(t *testing.T) {
	_, err := execute(t, "gallery", "--source", "redis")
	require.ErrorContains(t, err, "unknown source")
}
