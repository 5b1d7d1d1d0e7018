package metrics

import (
	"fmt"
	"time"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
)

var arabicMonths = [12]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

func monthName(m time.Month, locale catalog.Locale) string {
	if locale == catalog.LocaleAR {
		return arabicMonths[m-1]
	}
	return m.String()[:3]
}

// bucketLabel подпись точки графика: "3PM", "Jan 2", "Jan".
func bucketLabel(t time.Time, g entity.Granularity, locale catalog.Locale) string {
	switch g {
	case entity.GranularityHour:
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		suffix := "AM"
		if t.Hour() >= 12 {
			suffix = "PM"
		}
		if locale == catalog.LocaleAR {
			suffix = "ص"
			if t.Hour() >= 12 {
				suffix = "م"
			}
		}
		return fmt.Sprintf("%d%s", h, suffix)
	case entity.GranularityMonth:
		return monthName(t.Month(), locale)
	default:
		return fmt.Sprintf("%s %d", monthName(t.Month(), locale), t.Day())
	}
}
