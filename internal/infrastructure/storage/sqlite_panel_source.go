package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS panels(
	id INTEGER PRIMARY KEY,
	serial_number TEXT NOT NULL,
	ts INTEGER NOT NULL,
	system_type TEXT NOT NULL,
	status TEXT NOT NULL,
	health_score REAL NOT NULL,
	image_url TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_panels_ts ON panels(ts);
CREATE TABLE IF NOT EXISTS defects(
	panel_id INTEGER NOT NULL REFERENCES panels(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	type_key TEXT NOT NULL,
	severity TEXT NOT NULL,
	x REAL NOT NULL, y REAL NOT NULL, w REAL NOT NULL, h REAL NOT NULL,
	PRIMARY KEY(panel_id, seq)
);`

// SQLitePanelSource хранит историю проверок в SQLite-файле
type SQLitePanelSource struct {
	db *sql.DB
}

// OpenSQLitePanelSource открывает (и при необходимости создаёт) базу по пути path.
func OpenSQLitePanelSource(ctx context.Context, path string) (*SQLitePanelSource, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite mkdir: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout=5000&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite init schema: %w", err)
	}

	return &SQLitePanelSource{db: db}, nil
}

// Close закрывает соединение с базой
func (s *SQLitePanelSource) Close() error {
	return s.db.Close()
}

// Save вставляет или заменяет панели вместе с их дефектами в одной транзакции.
func (s *SQLitePanelSource) Save(ctx context.Context, panels ...entity.Panel) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range panels {
		_, err := tx.ExecContext(ctx, `INSERT INTO panels(id, serial_number, ts, system_type, status, health_score, image_url)
VALUES(?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET serial_number=excluded.serial_number, ts=excluded.ts,
	system_type=excluded.system_type, status=excluded.status,
	health_score=excluded.health_score, image_url=excluded.image_url`,
			p.ID, p.SerialNumber, p.Timestamp.UnixNano(), string(p.SystemType), string(p.Status), p.HealthScore, p.ImageURL)
		if err != nil {
			return fmt.Errorf("save panel %d: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM defects WHERE panel_id=?`, p.ID); err != nil {
			return fmt.Errorf("clear defects of panel %d: %w", p.ID, err)
		}
		for i, d := range p.Defects {
			_, err := tx.ExecContext(ctx, `INSERT INTO defects(panel_id, seq, type_key, severity, x, y, w, h) VALUES(?,?,?,?,?,?,?,?)`,
				p.ID, i, d.TypeKey, string(d.Severity), d.Location.X, d.Location.Y, d.Location.Width, d.Location.Height)
			if err != nil {
				return fmt.Errorf("save defect %d of panel %d: %w", i, p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func buildWhere(q port.PanelQuery) (string, []any) {
	var conds []string
	var args []any
	if q.From != nil {
		conds = append(conds, "p.ts >= ?")
		args = append(args, q.From.UnixNano())
	}
	if q.To != nil {
		conds = append(conds, "p.ts <= ?")
		args = append(args, q.To.UnixNano())
	}
	if q.SystemType != "" && !strings.EqualFold(string(q.SystemType), string(entity.SystemAll)) {
		conds = append(conds, "UPPER(p.system_type) = UPPER(?)")
		args = append(args, string(q.SystemType))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListPanels возвращает панели по возрастанию времени проверки
func (s *SQLitePanelSource) ListPanels(ctx context.Context, q port.PanelQuery) ([]entity.Panel, error) {
	where, args := buildWhere(q)

	rows, err := s.db.QueryContext(ctx, `SELECT p.id, p.serial_number, p.ts, p.system_type, p.status, p.health_score, p.image_url
FROM panels p`+where+` ORDER BY p.ts, p.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}
	panels := make([]entity.Panel, 0)
	index := make(map[int64]int)
	for rows.Next() {
		p, err := scanPanel(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[p.ID] = len(panels)
		panels = append(panels, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}

	drows, err := s.db.QueryContext(ctx, `SELECT d.panel_id, d.type_key, d.severity, d.x, d.y, d.w, d.h
FROM defects d JOIN panels p ON p.id = d.panel_id`+where+` ORDER BY d.panel_id, d.seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list defects: %w", err)
	}
	for drows.Next() {
		id, d, err := scanDefect(drows)
		if err != nil {
			drows.Close()
			return nil, err
		}
		if i, ok := index[id]; ok {
			panels[i].Defects = append(panels[i].Defects, d)
		}
	}
	if err := closeRows(drows); err != nil {
		return nil, fmt.Errorf("list defects: %w", err)
	}

	return panels, nil
}

// GetPanel возвращает панель по ID
func (s *SQLitePanelSource) GetPanel(ctx context.Context, id int64) (*entity.Panel, error) {
	row := s.db.QueryRowContext(ctx, `SELECT p.id, p.serial_number, p.ts, p.system_type, p.status, p.health_score, p.image_url
FROM panels p WHERE p.id = ?`, id)
	p, err := scanPanel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrPanelNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT d.panel_id, d.type_key, d.severity, d.x, d.y, d.w, d.h
FROM defects d WHERE d.panel_id = ? ORDER BY d.seq`, id)
	if err != nil {
		return nil, fmt.Errorf("get defects: %w", err)
	}
	for rows.Next() {
		_, d, err := scanDefect(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		p.Defects = append(p.Defects, d)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("get defects: %w", err)
	}
	return &p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPanel(sc scanner) (entity.Panel, error) {
	var (
		p      entity.Panel
		ts     int64
		system string
		status string
	)
	if err := sc.Scan(&p.ID, &p.SerialNumber, &ts, &system, &status, &p.HealthScore, &p.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan panel: %w", err)
	}
	p.Timestamp = time.Unix(0, ts).UTC()
	p.SystemType = entity.SystemType(system)
	p.Status = entity.PanelStatus(status)
	return p, nil
}

func scanDefect(sc scanner) (int64, entity.Defect, error) {
	var (
		panelID  int64
		d        entity.Defect
		severity string
	)
	err := sc.Scan(&panelID, &d.TypeKey, &severity, &d.Location.X, &d.Location.Y, &d.Location.Width, &d.Location.Height)
	if err != nil {
		return 0, d, fmt.Errorf("scan defect: %w", err)
	}
	d.Severity = entity.Severity(severity)
	return panelID, d, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

var _ port.PanelSource = (*SQLitePanelSource)(nil)
