package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

// MaxLiveAlerts сколько тревог хранит лента
const MaxLiveAlerts = 50

var (
	ErrNoPanels       = errors.New("no panels to stream")
	ErrAlertNotFound  = errors.New("alert not found")
	errInvalidTickDur = errors.New("live interval must be positive")
)

// Frame очередная панель живой ленты
type Frame struct {
	Panel   entity.Panel      `json:"panel"`
	Defects []DecoratedDefect `json:"defects"`
	Alert   *entity.LiveAlert `json:"alert,omitempty"`
	At      time.Time         `json:"at"`
}

// LiveFeed проигрывает панели источника по кругу в хронологическом порядке
// и поднимает тревогу для каждой забракованной панели.
type LiveFeed struct {
	source  port.PanelSource
	catalog *catalog.Catalog
	locale  catalog.Locale
	now     func() time.Time
	newID   func() string

	mu     sync.Mutex
	panels []entity.Panel
	next   int
	alerts []entity.LiveAlert
}

func NewLiveFeed(source port.PanelSource, c *catalog.Catalog, locale catalog.Locale) *LiveFeed {
	if c == nil {
		c = catalog.Default()
	}
	return &LiveFeed{
		source:  source,
		catalog: c,
		locale:  locale,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Reload перечитывает панели источника и начинает круг заново.
func (f *LiveFeed) Reload(ctx context.Context) error {
	panels, err := f.source.ListPanels(ctx, port.PanelQuery{})
	if err != nil {
		return fmt.Errorf("list panels: %w", err)
	}
	slices.SortStableFunc(panels, func(a, b entity.Panel) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	f.mu.Lock()
	f.panels = panels
	f.next = 0
	f.mu.Unlock()
	return nil
}

// Next возвращает следующую панель круга.
func (f *LiveFeed) Next(ctx context.Context) (Frame, error) {
	f.mu.Lock()
	empty := len(f.panels) == 0
	f.mu.Unlock()
	if empty {
		if err := f.Reload(ctx); err != nil {
			return Frame{}, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.panels) == 0 {
		return Frame{}, ErrNoPanels
	}

	p := f.panels[f.next].Clone()
	f.next = (f.next + 1) % len(f.panels)

	frame := Frame{
		Panel:   p,
		Defects: Decorate(f.catalog, p.Defects, f.locale),
		At:      f.now(),
	}
	if !p.Passed() {
		frame.Alert = f.raise(p, frame.At)
	}
	return frame, nil
}

// raise добавляет тревогу, если по этому серийному номеру её ещё нет.
func (f *LiveFeed) raise(p entity.Panel, at time.Time) *entity.LiveAlert {
	if slices.ContainsFunc(f.alerts, func(a entity.LiveAlert) bool { return a.SerialNumber == p.SerialNumber }) {
		return nil
	}

	alert := entity.LiveAlert{
		ID:           f.newID(),
		SerialNumber: p.SerialNumber,
		DefectCount:  len(p.Defects),
		Message:      fmt.Sprintf("%d defects detected", len(p.Defects)),
		Timestamp:    at,
	}
	f.alerts = slices.Insert(f.alerts, 0, alert)
	if len(f.alerts) > MaxLiveAlerts {
		f.alerts = f.alerts[:MaxLiveAlerts]
	}
	return &alert
}

// Alerts копия списка тревог, новые первыми
func (f *LiveFeed) Alerts() []entity.LiveAlert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.alerts)
}

// Acknowledge отмечает тревогу просмотренной
func (f *LiveFeed) Acknowledge(id string) (entity.LiveAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.alerts {
		if f.alerts[i].ID == id {
			f.alerts[i].Acknowledged = true
			return f.alerts[i], nil
		}
	}
	return entity.LiveAlert{}, fmt.Errorf("%w: %s", ErrAlertNotFound, id)
}

// Run выдаёт первый кадр сразу, затем каждые interval до отмены ctx.
func (f *LiveFeed) Run(ctx context.Context, interval time.Duration, emit func(Frame)) error {
	if interval <= 0 {
		return errInvalidTickDur
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		frame, err := f.Next(ctx)
		switch {
		case err == nil:
			emit(frame)
		case ctx.Err() != nil:
			return ctx.Err()
		case !errors.Is(err, ErrNoPanels):
			slog.Error("live feed", "err", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
