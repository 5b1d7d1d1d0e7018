package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateRangeValidate(t *testing.T) {
	start := time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC)

	require.NoError(t, DateRange{Start: start, End: start}.Validate())

	err := DateRange{Start: start.Add(time.Hour), End: start}.Validate()
	var rangeErr *InvalidRangeError
	require.True(t, errors.As(err, &rangeErr))
	require.Contains(t, err.Error(), "start 2024-05-21T01:00:00Z is after end")
}

func TestDateRangeContains_Inclusive(t *testing.T) {
	start := time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC)
	r := DateRange{Start: start, End: start.Add(time.Hour)}

	require.True(t, r.Contains(start))
	require.True(t, r.Contains(start.Add(time.Hour)))
	require.False(t, r.Contains(start.Add(-time.Nanosecond)))
	require.False(t, r.Contains(start.Add(time.Hour+time.Nanosecond)))
}

func TestResolvePreset(t *testing.T) {
	// Вторник
	now := time.Date(2024, 5, 21, 14, 22, 15, 0, time.UTC)

	today, err := ResolvePreset(PresetToday, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC), today.Start)
	require.Equal(t, time.Date(2024, 5, 21, 23, 59, 59, 999999999, time.UTC), today.End)

	week, err := ResolvePreset(PresetWeek, now)
	require.NoError(t, err)
	require.Equal(t, time.Sunday, week.Start.Weekday())
	require.Equal(t, time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC), week.Start)
	require.Equal(t, time.Date(2024, 5, 25, 23, 59, 59, 999999999, time.UTC), week.End)
	// Суббота 18 мая относится к предыдущей неделе.
	require.False(t, week.Contains(time.Date(2024, 5, 18, 10, 0, 0, 0, time.UTC)))

	month, err := ResolvePreset(PresetMonth, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), month.Start)
	require.Equal(t, 31, month.End.Day())

	year, err := ResolvePreset(PresetYear, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC), year.End)
}

func TestResolvePreset_WeekBoundaries(t *testing.T) {
	// Воскресенье начинает свою неделю
	week, err := ResolvePreset(PresetWeek, time.Date(2024, 5, 19, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 19, week.Start.Day())

	// Суббота закрывает неделю, начатую в воскресенье
	week, err = ResolvePreset(PresetWeek, time.Date(2024, 5, 18, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), week.Start)
	require.Equal(t, 18, week.End.Day())
}

func TestReferenceDate(t *testing.T) {
	now := time.Date(2024, 5, 21, 14, 0, 0, 0, time.UTC)

	require.Equal(t, now, ReferenceDate(0, now))
	require.Equal(t, now, ReferenceDate(2024, now))
	require.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), ReferenceDate(2023, now))

	month, err := ResolvePreset(PresetMonth, ReferenceDate(2023, now))
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), month.Start)
	require.Equal(t, time.Date(2023, 1, 31, 23, 59, 59, 999999999, time.UTC), month.End)
}

func TestResolvePreset_Unknown(t *testing.T) {
	_, err := ResolvePreset(PresetAll, time.Now())
	require.ErrorIs(t, err, ErrUnknownPreset)

	_, err = ParsePreset("decade")
	require.ErrorIs(t, err, ErrUnknownPreset)

	p, err := ParsePreset(" Week ")
	require.NoError(t, err)
	require.Equal(t, PresetWeek, p)
}
