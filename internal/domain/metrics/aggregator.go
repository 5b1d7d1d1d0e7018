// Package metrics собирает статистику производства для дашборда.
//
// Aggregator: чистая функция от списка панелей, периода, фильтра и языка.
// Он не хранит изменяемого состояния и не кэширует результаты, поэтому
// вызовы из разных горутин не мешают друг другу.
package metrics

import (
	"slices"
	"time"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
)

const (
	// MaxCriticalAlerts сколько последних критических панелей показывать
	MaxCriticalAlerts = 4
	// ParetoSize сколько типов дефектов попадает на диаграмму Парето
	ParetoSize = 7

	hourlyMaxWidth  = 24 * time.Hour
	monthlyMinWidth = 62 * 24 * time.Hour
)

// Filter дополнительные условия отбора панелей
type Filter struct {
	SystemType entity.SystemType // пусто или "all": без фильтра
}

// Aggregator считает DashboardMetrics
type Aggregator struct {
	catalog  *catalog.Catalog
	location *time.Location
}

// Option настройка агрегатора
type Option func(*Aggregator)

// WithLocation задаёт часовой пояс для границ часов, дней и месяцев.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.location = loc
		}
	}
}

// NewAggregator создаёт агрегатор. nil-справочник заменяется встроенным.
func NewAggregator(c *catalog.Catalog, opts ...Option) *Aggregator {
	if c == nil {
		c = catalog.Default()
	}
	a := &Aggregator{catalog: c, location: time.UTC}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compute строит метрики дашборда. Входной срез не изменяется.
// Единственная ошибка: *entity.InvalidRangeError.
func (a *Aggregator) Compute(panels []entity.Panel, rng entity.DateRange, filter Filter, locale catalog.Locale) (*entity.DashboardMetrics, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	selected := make([]*entity.Panel, 0, len(panels))
	for i := range panels {
		p := &panels[i]
		if filter.SystemType.Matches(p.SystemType) && rng.Contains(p.Timestamp) {
			selected = append(selected, p)
		}
	}

	granularity := GranularityFor(rng)
	ranking := a.rankDefects(selected, locale)

	return &entity.DashboardMetrics{
		Range:            rng,
		Granularity:      granularity,
		Stats:            computeStats(selected, rng),
		CriticalAlerts:   a.criticalAlerts(selected, locale),
		DefectRanking:    ranking,
		ParetoTop7:       pareto(ranking),
		ProductionSeries: a.productionSeries(selected, granularity, locale),
	}, nil
}

func computeStats(panels []*entity.Panel, rng entity.DateRange) entity.Stats {
	s := entity.Stats{Total: len(panels)}
	for _, p := range panels {
		if p.Passed() {
			s.Passed++
		}
	}
	s.Failed = s.Total - s.Passed

	s.ConformanceRate = 100
	if s.Total > 0 {
		s.ConformanceRate = float64(s.Passed) / float64(s.Total) * 100
		s.DefectRate = float64(s.Failed) / float64(s.Total) * 100
	}
	if hours := rng.Hours(); hours > 0 {
		s.ThroughputPerHour = float64(s.Total) / hours
	}
	return s
}

func (a *Aggregator) criticalAlerts(panels []*entity.Panel, locale catalog.Locale) []entity.CriticalAlert {
	type candidate struct {
		panel  *entity.Panel
		defect entity.Defect
	}

	var found []candidate
	for _, p := range panels {
		for _, d := range p.Defects {
			if a.catalog.Severity(d).IsAlerting() {
				found = append(found, candidate{panel: p, defect: d})
				break
			}
		}
	}

	slices.SortStableFunc(found, func(x, y candidate) int {
		return y.panel.Timestamp.Compare(x.panel.Timestamp)
	})
	if len(found) > MaxCriticalAlerts {
		found = found[:MaxCriticalAlerts]
	}

	alerts := make([]entity.CriticalAlert, 0, len(found))
	for _, c := range found {
		alerts = append(alerts, entity.CriticalAlert{
			ID:                c.panel.ID,
			SerialNumber:      c.panel.SerialNumber,
			DefectDisplayName: a.catalog.DisplayName(c.defect.TypeKey, locale),
			Timestamp:         c.panel.Timestamp,
		})
	}
	return alerts
}

func (a *Aggregator) rankDefects(panels []*entity.Panel, locale catalog.Locale) []entity.DefectRank {
	index := make(map[string]int)
	ranking := make([]entity.DefectRank, 0)

	for _, p := range panels {
		for _, d := range p.Defects {
			i, ok := index[d.TypeKey]
			if !ok {
				i = len(ranking)
				index[d.TypeKey] = i
				ranking = append(ranking, entity.DefectRank{
					TypeKey:     d.TypeKey,
					DisplayName: a.catalog.DisplayName(d.TypeKey, locale),
					Color:       a.catalog.Color(d.TypeKey),
					Severity:    a.catalog.Severity(d),
				})
			}
			ranking[i].Count++
		}
	}

	// Стабильная сортировка: при равенстве сохраняется порядок первого появления.
	slices.SortStableFunc(ranking, func(x, y entity.DefectRank) int {
		return y.Count - x.Count
	})
	return ranking
}

func pareto(ranking []entity.DefectRank) []entity.ParetoEntry {
	total := 0
	for _, r := range ranking {
		total += r.Count
	}

	n := min(len(ranking), ParetoSize)
	out := make([]entity.ParetoEntry, 0, n)
	cumulative := 0
	for _, r := range ranking[:n] {
		cumulative += r.Count
		e := entity.ParetoEntry{DefectRank: r}
		if total > 0 {
			e.CumulativePercentage = float64(cumulative) / float64(total) * 100
		}
		out = append(out, e)
	}
	return out
}

// GranularityFor выбирает шаг ряда по ширине периода, а не по названию пресета.
func GranularityFor(rng entity.DateRange) entity.Granularity {
	w := rng.Width()
	switch {
	case w <= hourlyMaxWidth:
		return entity.GranularityHour
	case w > monthlyMinWidth:
		return entity.GranularityMonth
	default:
		return entity.GranularityDay
	}
}

func (a *Aggregator) productionSeries(panels []*entity.Panel, g entity.Granularity, locale catalog.Locale) []entity.ProductionBucket {
	buckets := make(map[time.Time]*entity.ProductionBucket)
	for _, p := range panels {
		start := truncate(p.Timestamp.In(a.location), g)
		b, ok := buckets[start]
		if !ok {
			b = &entity.ProductionBucket{
				BucketLabel:   bucketLabel(start, g, locale),
				BucketInstant: start,
			}
			buckets[start] = b
		}
		b.Inspected++
		if !p.Passed() {
			b.Defects++
		}
	}

	series := make([]entity.ProductionBucket, 0, len(buckets))
	for _, b := range buckets {
		series = append(series, *b)
	}
	slices.SortFunc(series, func(x, y entity.ProductionBucket) int {
		return x.BucketInstant.Compare(y.BucketInstant)
	})
	return series
}

// truncate возвращает начало часа, дня или месяца в поясе t.
func truncate(t time.Time, g entity.Granularity) time.Time {
	y, m, d := t.Date()
	switch g {
	case entity.GranularityHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
	case entity.GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
}
