package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/metrics"
	"misbar/internal/domain/port"
)

// DefaultPreset период дашборда, если ничего не выбрано
const DefaultPreset = entity.PresetMonth

// ErrInvalidYear год вне допустимого диапазона
var ErrInvalidYear = errors.New("invalid year")

// DashboardRequest запрос метрик. Явный Range важнее Preset.
// Year переключает дашборд на другой год: без Preset берётся весь год,
// с Preset период отсчитывается от 1 января выбранного года.
type DashboardRequest struct {
	Range      *entity.DateRange
	Preset     entity.Preset
	Year       int
	SystemType entity.SystemType
	Locale     catalog.Locale
}

// PresetMetrics метрики одного периода для сводки
type PresetMetrics struct {
	Preset  entity.Preset            `json:"preset"`
	Metrics *entity.DashboardMetrics `json:"metrics"`
}

type DashboardService struct {
	source     port.PanelSource
	aggregator *metrics.Aggregator
	location   *time.Location
	now        func() time.Time
}

func NewDashboardService(source port.PanelSource, aggregator *metrics.Aggregator, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		source:     source,
		aggregator: aggregator,
		location:   loc,
		now:        time.Now,
	}
}

// ResolveRange переводит запрос в конкретный период в часовом поясе линии.
func (s *DashboardService) ResolveRange(req DashboardRequest) (entity.DateRange, error) {
	if req.Range != nil {
		return *req.Range, req.Range.Validate()
	}
	if req.Year != 0 && (req.Year < 1 || req.Year > 9999) {
		return entity.DateRange{}, fmt.Errorf("%w: %d", ErrInvalidYear, req.Year)
	}
	preset := req.Preset
	switch {
	case preset != "":
	case req.Year != 0:
		preset = entity.PresetYear
	default:
		preset = DefaultPreset
	}
	return entity.ResolvePreset(preset, entity.ReferenceDate(req.Year, s.now().In(s.location)))
}

// Metrics считает дашборд за период. Неверный период возвращается
// как *entity.InvalidRangeError без обращения к источнику.
func (s *DashboardService) Metrics(ctx context.Context, req DashboardRequest) (*entity.DashboardMetrics, error) {
	rng, err := s.ResolveRange(req)
	if err != nil {
		return nil, err
	}

	panels, err := s.source.ListPanels(ctx, port.PanelQuery{
		From:       &rng.Start,
		To:         &rng.End,
		SystemType: req.SystemType,
	})
	if err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}

	return s.aggregator.Compute(panels, rng, metrics.Filter{SystemType: req.SystemType}, req.Locale)
}

// Overview считает несколько периодов параллельно; порядок результата
// совпадает с порядком presets.
func (s *DashboardService) Overview(ctx context.Context, presets []entity.Preset, system entity.SystemType, locale catalog.Locale) ([]PresetMetrics, error) {
	out := make([]PresetMetrics, len(presets))
	g, ctx := errgroup.WithContext(ctx)

	for i, p := range presets {
		g.Go(func() error {
			m, err := s.Metrics(ctx, DashboardRequest{Preset: p, SystemType: system, Locale: locale})
			if err != nil {
				return fmt.Errorf("preset %s: %w", p, err)
			}
			out[i] = PresetMetrics{Preset: p, Metrics: m}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
