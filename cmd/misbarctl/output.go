package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"misbar/internal/domain/entity"
)

var (
	bold   = color.New(color.Bold)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
)

const timeLayout = "2006-01-02 15:04"

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func header(tw io.Writer, cols ...string) {
	for i, c := range cols {
		if i > 0 {
			_, _ = fmt.Fprint(tw, "\t")
		}
		_, _ = fmt.Fprint(tw, bold.Sprint(c))
	}
	_, _ = fmt.Fprintln(tw)
}

func section(w io.Writer, title string) {
	_, _ = fmt.Fprintf(w, "\n%s\n", bold.Sprint(title))
}

func colorStatus(s entity.PanelStatus) string {
	if s == entity.StatusPassed {
		return green.Sprint(s)
	}
	return red.Sprint(s)
}

func colorSeverity(s entity.Severity) string {
	switch s {
	case entity.SeverityCritical, entity.SeverityHigh:
		return red.Sprint(s)
	case entity.SeverityMedium:
		return yellow.Sprint(s)
	default:
		return string(s)
	}
}

// colorRate: не ниже 95% зелёный, не ниже 80% жёлтый, иначе красный.
func colorRate(v float64) string {
	s := fmt.Sprintf("%.1f%%", v)
	switch {
	case v >= 95:
		return green.Sprint(s)
	case v >= 80:
		return yellow.Sprint(s)
	default:
		return red.Sprint(s)
	}
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timeLayout)
}
