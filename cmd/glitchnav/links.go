package glitchnav

import (
	"github.com/franzer/glitchnav/internal/config"
	"github.com/franzer/glitchnav/internal/report"
	"github.com/franzer/glitchnav/internal/scramble"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "List configured links and whether the glitch effect applies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return report.PrintLinks(cmd.OutOrStdout(), linkRows(settings), report.PrintOptions{
				NoColor:  settings.NoColor,
				Interval: settings.Interval,
			})
		},
	}
	rootCmd.AddCommand(cmd)
}

func linkRows(s config.Settings) []report.LinkRow {
	rows := make([]report.LinkRow, 0, len(s.Links))
	for _, l := range s.Links {
		r := report.LinkRow{ID: l.ID, Caption: l.Caption(), Installed: s.Installed(l)}
		if r.Installed {
			r.Ticks = scramble.TicksToResolve(len([]rune(l.Text)), s.Step)
		}
		rows = append(rows, r)
	}
	return rows
}
