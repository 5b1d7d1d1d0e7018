package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	app "misbar/internal/application"
	"misbar/internal/domain/entity"
)

type dashboardOptions struct {
	preset string
	year   int
	system string
	start  string
	end    string
}

func newDashboardCmd(g *globalOptions) *cobra.Command {
	opts := &dashboardOptions{}
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print dashboard metrics for a period",
		Long: `Compute conformance, defect rate, throughput, critical alerts, the Pareto
chart and the production series for a preset period or an explicit range.
With --year the preset is counted from January 1 of that year; without a
preset the whole year is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "today, week, month or year (default month, or year with --year)")
	cmd.Flags().IntVarP(&opts.year, "year", "y", 0, "dashboard year (YYYY), defaults to the current one")
	cmd.Flags().StringVarP(&opts.system, "system", "s", "all", "EL, IR or all")
	cmd.Flags().StringVar(&opts.start, "start", "", "range start (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.end, "end", "", "range end (RFC 3339 or YYYY-MM-DD, inclusive)")
	return cmd
}

func (o *dashboardOptions) request(g *globalOptions) (app.DashboardRequest, error) {
	system, ok := entity.ParseSystemType(o.system)
	if !ok {
		return app.DashboardRequest{}, fmt.Errorf("unknown system type %q", o.system)
	}
	req := app.DashboardRequest{SystemType: system, Year: o.year, Locale: g.localeValue()}

	if o.start == "" && o.end == "" {
		if o.preset == "" {
			return req, nil
		}
		p, err := entity.ParsePreset(o.preset)
		if err != nil {
			return req, err
		}
		req.Preset = p
		return req, nil
	}
	if o.start == "" || o.end == "" {
		return req, fmt.Errorf("--start and --end must be given together")
	}

	start, err := parseBound(o.start, g.location, false)
	if err != nil {
		return req, fmt.Errorf("--start: %w", err)
	}
	end, err := parseBound(o.end, g.location, true)
	if err != nil {
		return req, fmt.Errorf("--end: %w", err)
	}
	req.Range = &entity.DateRange{Start: start, End: end}
	return req, nil
}

// parseBound принимает RFC 3339 или дату; дата конца включает весь день.
func parseBound(s string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}

func runDashboard(cmd *cobra.Command, g *globalOptions, opts *dashboardOptions) error {
	req, err := opts.request(g)
	if err != nil {
		return err
	}

	c, closeFn, err := g.openContainer(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	m, err := c.DashboardService.Metrics(cmd.Context(), req)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if g.format == formatJSON {
		return writeJSON(w, m)
	}

	loc := g.location
	_, _ = fmt.Fprintf(w, "%s %s .. %s (%s)\n", bold.Sprint("Range:"),
		formatTime(m.Range.Start, loc), formatTime(m.Range.End, loc), m.Granularity)

	tw := newTabWriter(w)
	s := m.Stats
	header(tw, "INSPECTED", "PASSED", "FAILED", "CONFORMANCE", "DEFECT RATE", "THROUGHPUT/H")
	_, _ = fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%.1f%%\t%.2f\n",
		s.Total, s.Passed, s.Failed, colorRate(s.ConformanceRate), s.DefectRate, s.ThroughputPerHour)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(m.CriticalAlerts) > 0 {
		section(w, "Critical alerts")
		tw = newTabWriter(w)
		header(tw, "ID", "SERIAL", "DEFECT", "TIME")
		for _, a := range m.CriticalAlerts {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID, a.SerialNumber, red.Sprint(a.DefectDisplayName), formatTime(a.Timestamp, loc))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	section(w, "Pareto")
	if len(m.ParetoTop7) == 0 {
		_, _ = fmt.Fprintln(w, green.Sprint("no defects"))
	} else {
		tw = newTabWriter(w)
		header(tw, "#", "DEFECT", "SEVERITY", "COUNT", "CUMULATIVE")
		for i, p := range m.ParetoTop7 {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.1f%%\n", i+1, p.DisplayName, colorSeverity(p.Severity), p.Count, p.CumulativePercentage)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	section(w, "Production")
	tw = newTabWriter(w)
	header(tw, "BUCKET", "INSPECTED", "DEFECTS")
	for _, b := range m.ProductionSeries {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\n", b.BucketLabel, b.Inspected, b.Defects)
	}
	return tw.Flush()
}
