package storage

import (
	"context"
	"slices"
	"sync"

	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

// MemoryPanelSource in-memory источник панелей, обычно заполняется из фикстуры
type MemoryPanelSource struct {
	mu     sync.RWMutex
	panels []entity.Panel
	byID   map[int64]int
}

// NewMemoryPanelSource создаёт источник с начальным набором панелей
func NewMemoryPanelSource(panels ...entity.Panel) *MemoryPanelSource {
	s := &MemoryPanelSource{byID: make(map[int64]int)}
	s.Add(panels...)
	return s
}

// Add добавляет панели; панель с уже известным ID заменяет прежнюю.
func (s *MemoryPanelSource) Add(panels ...entity.Panel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range panels {
		p = p.Clone()
		if i, ok := s.byID[p.ID]; ok {
			s.panels[i] = p
			continue
		}
		s.byID[p.ID] = len(s.panels)
		s.panels = append(s.panels, p)
	}
}

// ListPanels возвращает копии панелей по возрастанию времени проверки
func (s *MemoryPanelSource) ListPanels(ctx context.Context, q port.PanelQuery) ([]entity.Panel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]entity.Panel, 0, len(s.panels))
	for _, p := range s.panels {
		if q.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b entity.Panel) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out, nil
}

// GetPanel возвращает копию панели по ID
func (s *MemoryPanelSource) GetPanel(ctx context.Context, id int64) (*entity.Panel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return nil, port.ErrPanelNotFound
	}
	p := s.panels[i].Clone()
	return &p, nil
}

var _ port.PanelSource = (*MemoryPanelSource)(nil)
