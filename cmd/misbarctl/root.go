package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"misbar/config"
	"misbar/internal/container"
	"misbar/internal/domain/catalog"
	"misbar/internal/infrastructure/storage"
	mlog "misbar/internal/log"
)

// Форматы вывода
const (
	formatTable = "table"
	formatJSON  = "json"
)

// globalOptions общие флаги всех команд
type globalOptions struct {
	format   string
	source   string
	dbPath   string
	fixture  string
	locale   string
	noColor  bool
	verbose  bool
	cfg      *config.Config
	location *time.Location
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "misbarctl",
		Short: "Inspect solar-panel QC metrics from the command line",
		Long: `misbarctl reads the same panel source as the Misbar server and prints
dashboard metrics, gallery searches and the defect catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.format, "format", "f", formatTable, "output format: table or json")
	flags.StringVar(&opts.source, "source", "", "panel source: fixture or sqlite (default from PANEL_SOURCE)")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite file (default from SQLITE_PATH)")
	flags.StringVar(&opts.fixture, "fixture", "", "panel fixture YAML (default: embedded sample)")
	flags.StringVar(&opts.locale, "locale", "", "display language: ar or en (default from DEFAULT_LOCALE)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDashboardCmd(opts))
	root.AddCommand(newGalleryCmd(opts))
	root.AddCommand(newCatalogCmd(opts))
	root.AddCommand(newSeedCmd(opts))

	return root
}

func (o *globalOptions) setup(cmd *cobra.Command) error {
	if o.format != formatTable && o.format != formatJSON {
		return fmt.Errorf("unknown format %q: use table or json", o.format)
	}
	if o.noColor {
		color.NoColor = true
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	mlog.SetupWriter(cmd.ErrOrStderr(), level)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.source != "" {
		cfg.PanelSource = o.source
	}
	if o.dbPath != "" {
		cfg.SQLitePath = o.dbPath
	}
	if o.fixture != "" {
		cfg.PanelFixture = o.fixture
	}
	if o.locale != "" {
		cfg.DefaultLocale = o.locale
	}
	switch cfg.PanelSource {
	case config.SourceFixture, config.SourceSQLite:
	default:
		return fmt.Errorf("unknown source %q: use fixture or sqlite", cfg.PanelSource)
	}

	o.cfg = cfg
	o.location = cfg.Location
	return nil
}

func (o *globalOptions) localeValue() catalog.Locale {
	return catalog.ParseLocale(o.cfg.DefaultLocale)
}

// openContainer открывает источник панелей и собирает сервисы
func (o *globalOptions) openContainer(ctx context.Context) (*container.Container, func() error, error) {
	panels, closeFn, err := container.OpenPanels(ctx, o.cfg, time.Now())
	if err != nil {
		return nil, nil, err
	}
	c := container.New(container.Deps{
		Panels:        panels,
		Users:         storage.NewMemoryUserRepository(),
		Location:      o.location,
		DefaultLocale: o.localeValue(),
	})
	return c, closeFn, nil
}
