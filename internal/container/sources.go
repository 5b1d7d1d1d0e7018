package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"misbar/config"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
	"misbar/internal/infrastructure/fixture"
	"misbar/internal/infrastructure/storage"
)

// FixturePanels читает фикстуру из path или встроенный набор, если path пуст.
func FixturePanels(path string, now time.Time) ([]entity.Panel, error) {
	if path == "" {
		return fixture.Default(now), nil
	}
	return fixture.Load(path, now)
}

// OpenPanels открывает источник панелей по конфигурации.
// Пустая SQLite-база заполняется фикстурой. closeFn освобождает ресурсы источника.
func OpenPanels(ctx context.Context, cfg *config.Config, now time.Time) (src port.PanelSource, closeFn func() error, err error) {
	panels, err := FixturePanels(cfg.PanelFixture, now)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.PanelSource {
	case config.SourceSQLite:
		db, err := storage.OpenSQLitePanelSource(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		existing, err := db.ListPanels(ctx, port.PanelQuery{})
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("count panels: %w", err)
		}
		if len(existing) == 0 {
			if err := db.Save(ctx, panels...); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("seed sqlite: %w", err)
			}
			slog.Info("sqlite seeded from fixture", "path", cfg.SQLitePath, "panels", len(panels))
		}
		return db, db.Close, nil

	default:
		return storage.NewMemoryPanelSource(panels...), func() error { return nil }, nil
	}
}
