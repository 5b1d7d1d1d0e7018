package main

import (
	"fmt"

	"github.com/spf13/cobra"

	app "misbar/internal/application"
	"misbar/internal/domain/entity"
)

func newGalleryCmd(g *globalOptions) *cobra.Command {
	var preset, system string
	cmd := &cobra.Command{
		Use:   "gallery [term]",
		Short: "Search inspected panels by serial number",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := app.GalleryQuery{}
			if len(args) > 0 {
				q.Term = args[0]
			}
			st, ok := entity.ParseSystemType(system)
			if !ok {
				return fmt.Errorf("unknown system type %q", system)
			}
			q.SystemType = st
			p, err := entity.ParsePreset(preset)
			if err != nil {
				return err
			}
			q.Preset = p

			c, closeFn, err := g.openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			panels, err := c.GalleryService.Search(cmd.Context(), q)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if g.format == formatJSON {
				return writeJSON(w, panels)
			}

			tw := newTabWriter(w)
			header(tw, "ID", "SERIAL", "SYSTEM", "STATUS", "HEALTH", "DEFECTS", "TIME")
			for _, p := range panels {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f\t%d\t%s\n",
					p.ID, p.SerialNumber, p.SystemType, colorStatus(p.Status), p.HealthScore, len(p.Defects), formatTime(p.Timestamp, g.location))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&preset, "preset", "p", string(entity.PresetAll), "today, week, month, year or all")
	cmd.Flags().StringVarP(&system, "system", "s", "all", "EL, IR or all")
	return cmd
}
