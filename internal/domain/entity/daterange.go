package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPreset возвращается для неизвестного названия периода.
var ErrUnknownPreset = errors.New("unknown date preset")

// InvalidRangeError начало периода позже конца.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// DateRange закрытый интервал [Start, End].
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate проверяет, что Start не позже End.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return &InvalidRangeError{Start: r.Start, End: r.End}
	}
	return nil
}

// Contains включает обе границы.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Width длительность интервала
func (r DateRange) Width() time.Duration {
	return r.End.Sub(r.Start)
}

// Hours длительность интервала в часах
func (r DateRange) Hours() float64 {
	return r.Width().Hours()
}

// Preset быстрый выбор периода на дашборде
type Preset string

const (
	PresetToday Preset = "today"
	PresetWeek  Preset = "week"
	PresetMonth Preset = "month"
	PresetYear  Preset = "year"
	PresetAll   Preset = "all" // только для галереи: без ограничения по дате
)

// ParsePreset нормализует название периода.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PresetToday, PresetWeek, PresetMonth, PresetYear, PresetAll:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

// WeekStart первый день недели. Воскресенье в обеих локалях дашборда (ar-SA, en-US).
const WeekStart = time.Sunday

// ReferenceDate точка отсчёта пресетов для выбранного года: now для
// текущего года (или year == 0), иначе 1 января выбранного года.
func ReferenceDate(year int, now time.Time) time.Time {
	if year == 0 || year == now.Year() {
		return now
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
}

// ResolvePreset возвращает период, содержащий now, в часовом поясе now.
// Конец периода: последняя наносекунда.
func ResolvePreset(p Preset, now time.Time) (DateRange, error) {
	loc := now.Location()
	y, m, d := now.Date()
	var start, end time.Time

	switch p {
	case PresetToday:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)
	case PresetWeek:
		offset := (int(now.Weekday()) - int(WeekStart) + 7) % 7
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 7)
	case PresetMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	case PresetYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0)
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}

	return DateRange{Start: start, End: end.Add(-time.Nanosecond)}, nil
}
