// Package fixture загружает наборы панелей из YAML-файлов.
package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
)

//go:embed sample.yaml
var sample []byte

// ErrInvalidFixture ошибка содержимого фикстуры
var ErrInvalidFixture = errors.New("invalid fixture")

type fileDefect struct {
	Type     string             `yaml:"type"`
	Severity entity.Severity    `yaml:"severity"`
	Location entity.BoundingBox `yaml:"location"`
}

type filePanel struct {
	ID           int64              `yaml:"id"`
	SerialNumber string             `yaml:"serial_number"`
	SystemType   string             `yaml:"system_type"`
	Timestamp    *time.Time         `yaml:"timestamp"`
	Age          string             `yaml:"age"`
	ImageURL     string             `yaml:"image_url"`
	HealthScore  float64            `yaml:"health_score"`
	Status       entity.PanelStatus `yaml:"status"`
	Defects      []fileDefect       `yaml:"defects"`
}

type file struct {
	Panels []filePanel `yaml:"panels"`
}

// Parse разбирает фикстуру. Поле age отсчитывается от now.
// Пустая severity дефекта берётся из справочника.
func Parse(data []byte, now time.Time) ([]entity.Panel, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}

	cat := catalog.Default()
	seen := make(map[int64]bool, len(f.Panels))
	panels := make([]entity.Panel, 0, len(f.Panels))
	for i, fp := range f.Panels {
		p, err := fp.toPanel(now, cat)
		if err != nil {
			return nil, fmt.Errorf("%w: panel #%d (%s): %v", ErrInvalidFixture, i, fp.SerialNumber, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: panel #%d: duplicate id %d", ErrInvalidFixture, i, p.ID)
		}
		seen[p.ID] = true
		panels = append(panels, p)
	}
	return panels, nil
}

func (fp filePanel) toPanel(now time.Time, cat *catalog.Catalog) (entity.Panel, error) {
	system, ok := entity.ParseSystemType(fp.SystemType)
	if !ok || system == entity.SystemAll {
		return entity.Panel{}, fmt.Errorf("unknown system type %q", fp.SystemType)
	}
	if fp.Status != entity.StatusPassed && fp.Status != entity.StatusFailed {
		return entity.Panel{}, fmt.Errorf("unknown status %q", fp.Status)
	}
	if fp.HealthScore < 0 || fp.HealthScore > 100 {
		return entity.Panel{}, fmt.Errorf("health score %.1f out of range", fp.HealthScore)
	}

	var ts time.Time
	switch {
	case fp.Timestamp != nil && fp.Age != "":
		return entity.Panel{}, errors.New("both timestamp and age are set")
	case fp.Timestamp != nil:
		ts = *fp.Timestamp
	case fp.Age != "":
		age, err := time.ParseDuration(fp.Age)
		if err != nil {
			return entity.Panel{}, fmt.Errorf("age: %w", err)
		}
		ts = now.Add(-age)
	default:
		return entity.Panel{}, errors.New("timestamp or age is required")
	}

	p := entity.Panel{
		ID:           fp.ID,
		SerialNumber: fp.SerialNumber,
		Timestamp:    ts,
		SystemType:   system,
		Status:       fp.Status,
		HealthScore:  fp.HealthScore,
		ImageURL:     fp.ImageURL,
	}
	for _, d := range fp.Defects {
		def := entity.Defect{TypeKey: d.Type, Severity: d.Severity, Location: d.Location}
		if def.Severity == "" {
			def.Severity = cat.Severity(def)
		}
		p.Defects = append(p.Defects, def)
	}
	return p, nil
}

// Load читает фикстуру из файла
func Load(path string, now time.Time) ([]entity.Panel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data, now)
}

// Default возвращает встроенный демонстрационный набор
func Default(now time.Time) []entity.Panel {
	panels, err := Parse(sample, now)
	if err != nil {
		panic(err)
	}
	return panels
}
