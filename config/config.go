package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Источники панелей
const (
	SourceFixture = "fixture"
	SourceSQLite  = "sqlite"
)

type Config struct {
	TelegramToken string         // пусто: бот не запускается
	HTTPAddr      string         // адрес HTTP API
	PanelSource   string         // fixture или sqlite
	PanelFixture  string         // путь к YAML; пусто: встроенный набор
	SQLitePath    string         // файл базы для PanelSource=sqlite
	DefaultLocale string         // язык по умолчанию
	Location      *time.Location // часовой пояс линии
	LiveInterval  time.Duration  // шаг живой ленты
	AIDelay       time.Duration  // имитация времени ответа модели
	LogLevel      string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		PanelSource:   strings.ToLower(getenv("PANEL_SOURCE", SourceFixture)),
		PanelFixture:  os.Getenv("PANEL_FIXTURE"),
		SQLitePath:    getenv("SQLITE_PATH", "misbar.db"),
		DefaultLocale: getenv("DEFAULT_LOCALE", "ar"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}

	switch cfg.PanelSource {
	case SourceFixture, SourceSQLite:
	default:
		return nil, fmt.Errorf("PANEL_SOURCE: unsupported source %q", cfg.PanelSource)
	}

	loc, err := time.LoadLocation(getenv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.LiveInterval, err = getDuration("LIVE_INTERVAL", 3*time.Second, true); err != nil {
		return nil, err
	}
	if cfg.AIDelay, err = getDuration("AI_DELAY", 2500*time.Millisecond, false); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getDuration читает длительность; positive запрещает нулевые и отрицательные значения.
func getDuration(key string, def time.Duration, positive bool) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if positive && d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}
