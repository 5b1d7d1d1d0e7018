package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"misbar/internal/container"
	"misbar/internal/infrastructure/storage"
)

func newSeedCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the panel fixture into the SQLite database",
		Long: `Write every panel of the fixture (embedded sample or --fixture) into the
SQLite file given by --db or SQLITE_PATH. Panels with the same id are replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			panels, err := container.FixturePanels(g.cfg.PanelFixture, time.Now())
			if err != nil {
				return err
			}

			db, err := storage.OpenSQLitePanelSource(cmd.Context(), g.cfg.SQLitePath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Save(cmd.Context(), panels...); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d panels into %s\n", green.Sprint("seeded"), len(panels), g.cfg.SQLitePath)
			return nil
		},
	}
}
