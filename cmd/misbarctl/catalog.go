package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
)

type catalogRow struct {
	Key      string          `json:"key"`
	System   string          `json:"system"`
	Severity entity.Severity `json:"severity"`
	Color    string          `json:"color"`
	Name     string          `json:"name"`
}

func newCatalogCmd(g *globalOptions) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List known defect types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, ok := entity.ParseSystemType(system)
			if !ok {
				return fmt.Errorf("unknown system type %q", system)
			}

			locale := g.localeValue()
			var rows []catalogRow
			for _, t := range catalog.Default().Types(st) {
				rows = append(rows, catalogRow{
					Key:      t.Key,
					System:   string(t.System),
					Severity: t.Severity,
					Color:    t.Color,
					Name:     t.Name(locale),
				})
			}

			w := cmd.OutOrStdout()
			if g.format == formatJSON {
				return writeJSON(w, rows)
			}

			tw := newTabWriter(w)
			header(tw, "KEY", "SYSTEM", "SEVERITY", "COLOR", "NAME")
			for _, r := range rows {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Key, r.System, colorSeverity(r.Severity), r.Color, r.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&system, "system", "s", "all", "EL, IR or all")
	return cmd
}
