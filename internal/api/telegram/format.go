package telegram

import (
	"fmt"
	"strings"
	"time"

	app "misbar/internal/application"
	"misbar/internal/domain/entity"
)

const (
	maxListed  = 10
	timeLayout = "2006-01-02 15:04"
)

func formatMetrics(t texts, title string, m *entity.DashboardMetrics, loc *time.Location) string {
	var b strings.Builder
	s := m.Stats

	fmt.Fprintf(&b, "%s: %s\n", t.dashboard, title)
	fmt.Fprintf(&b, "%s: %d | %s: %d | %s: %d\n", t.inspected, s.Total, t.passed, s.Passed, t.failed, s.Failed)
	fmt.Fprintf(&b, "%s: %.1f%% | %s: %.1f%% | %s: %.1f/h\n",
		t.conformance, s.ConformanceRate, t.defectRate, s.DefectRate, t.throughput, s.ThroughputPerHour)

	if len(m.CriticalAlerts) > 0 {
		fmt.Fprintf(&b, "\n%s:\n", t.criticalAlerts)
		for _, a := range m.CriticalAlerts {
			fmt.Fprintf(&b, "• %s: %s (%s)\n", a.SerialNumber, a.DefectDisplayName, a.Timestamp.In(loc).Format(timeLayout))
		}
	}

	fmt.Fprintf(&b, "\n%s:\n", t.topDefects)
	if len(m.ParetoTop7) == 0 {
		b.WriteString(t.noDefects)
		return b.String()
	}
	for i, p := range m.ParetoTop7 {
		fmt.Fprintf(&b, "%d. %s: %d (%.1f%%)\n", i+1, p.DisplayName, p.Count, p.CumulativePercentage)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatGallery(t texts, panels []entity.Panel, loc *time.Location) string {
	if len(panels) == 0 {
		return t.noPanels
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n", t.gallery, len(panels))
	for i, p := range panels {
		if i == maxListed {
			fmt.Fprintf(&b, "… +%d", len(panels)-maxListed)
			break
		}
		fmt.Fprintf(&b, "%s #%d %s [%s] %.1f%% %s\n",
			statusIcon(p.Status), p.ID, p.SerialNumber, p.SystemType, p.HealthScore, p.Timestamp.In(loc).Format(timeLayout))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPanel(t texts, d *app.PanelDetail, loc *time.Location) string {
	p := d.Panel
	var b strings.Builder

	fmt.Fprintf(&b, "%s #%d %s\n", statusIcon(p.Status), p.ID, p.SerialNumber)
	fmt.Fprintf(&b, "%s | %s\n", p.SystemType, p.Timestamp.In(loc).Format(timeLayout))
	fmt.Fprintf(&b, "%s: %.1f%%\n", t.health, p.HealthScore)

	if len(d.Defects) == 0 {
		b.WriteString(t.noDefects)
	} else {
		fmt.Fprintf(&b, "%s (%d):\n", t.defects, len(d.Defects))
		for _, def := range d.Defects {
			fmt.Fprintf(&b, "• %s [%s] %.0f,%.0f\n", def.DisplayName, def.Severity, def.Location.X, def.Location.Y)
		}
	}
	if p.ImageURL != "" {
		fmt.Fprintf(&b, "\n%s", p.ImageURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAlerts(t texts, alerts []entity.LiveAlert, loc *time.Location) string {
	if len(alerts) == 0 {
		return t.noAlerts
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", t.liveAlerts)
	for i, a := range alerts {
		if i == maxListed {
			break
		}
		mark := "🔴"
		if a.Acknowledged {
			mark = "⚪"
		}
		fmt.Fprintf(&b, "%s %s: %s (%s)\n/ack %s\n", mark, a.SerialNumber, a.Message, a.Timestamp.In(loc).Format(timeLayout), a.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusIcon(s entity.PanelStatus) string {
	if s == entity.StatusPassed {
		return "✅"
	}
	return "❌"
}
