package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

// GalleryQuery поиск панелей по серийному номеру
type GalleryQuery struct {
	Term       string
	Preset     entity.Preset // пусто или all: без ограничения по дате
	SystemType entity.SystemType
}

// DecoratedDefect дефект с данными справочника
type DecoratedDefect struct {
	entity.Defect
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
}

// PanelDetail панель для карточки галереи
type PanelDetail struct {
	Panel   entity.Panel      `json:"panel"`
	Defects []DecoratedDefect `json:"defects"`
}

type GalleryService struct {
	source   port.PanelSource
	catalog  *catalog.Catalog
	location *time.Location
	now      func() time.Time
}

func NewGalleryService(source port.PanelSource, c *catalog.Catalog, loc *time.Location) *GalleryService {
	if c == nil {
		c = catalog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &GalleryService{source: source, catalog: c, location: loc, now: time.Now}
}

// Search возвращает панели, чей серийный номер содержит Term без учёта регистра.
// Новые панели идут первыми.
func (s *GalleryService) Search(ctx context.Context, q GalleryQuery) ([]entity.Panel, error) {
	pq := port.PanelQuery{SystemType: q.SystemType}
	if q.Preset != "" && q.Preset != entity.PresetAll {
		rng, err := entity.ResolvePreset(q.Preset, s.now().In(s.location))
		if err != nil {
			return nil, err
		}
		pq.From, pq.To = &rng.Start, &rng.End
	}

	panels, err := s.source.ListPanels(ctx, pq)
	if err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(q.Term))
	if term != "" {
		panels = slices.DeleteFunc(panels, func(p entity.Panel) bool {
			return !strings.Contains(strings.ToLower(p.SerialNumber), term)
		})
	}

	slices.SortStableFunc(panels, func(a, b entity.Panel) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return panels, nil
}

// Panel карточка панели с названиями и цветами дефектов
func (s *GalleryService) Panel(ctx context.Context, id int64, locale catalog.Locale) (*PanelDetail, error) {
	p, err := s.source.GetPanel(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PanelDetail{Panel: *p, Defects: Decorate(s.catalog, p.Defects, locale)}, nil
}

// Decorate дополняет дефекты названием, цветом и итоговой важностью.
func Decorate(c *catalog.Catalog, defects []entity.Defect, locale catalog.Locale) []DecoratedDefect {
	out := make([]DecoratedDefect, 0, len(defects))
	for _, d := range defects {
		dd := DecoratedDefect{
			Defect:      d,
			DisplayName: c.DisplayName(d.TypeKey, locale),
			Color:       c.Color(d.TypeKey),
		}
		dd.Severity = c.Severity(d)
		out = append(out, dd)
	}
	return out
}
