package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
)

type PrintOptions struct {
	NoColor  bool
	Interval time.Duration
}

// LinkRow is one line of the links table.
type LinkRow struct {
	ID        string
	Caption   string
	Installed bool
	Ticks     int
}

// PrintLinks writes a table of links with how long each reveal takes.
func PrintLinks(w io.Writer, rows []LinkRow, opts PrintOptions) error {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No links configured")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Text", "Glitch", "Ticks", "Reveal")
	installed := 0
	for _, r := range rows {
		effect := "off"
		ticks, reveal := "-", "-"
		if r.Installed {
			installed++
			effect = "on"
			ticks = fmt.Sprintf("%d", r.Ticks)
			reveal = (time.Duration(r.Ticks) * opts.Interval).String()
		}
		if !opts.NoColor {
			effect = colorEffect(r.Installed, effect)
		}
		if err := table.Append([]string{r.ID, r.Caption, effect, ticks, reveal}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Links: %d (glitch: %d)\n", len(rows), installed)
	return err
}

func colorEffect(on bool, s string) string {
	if on {
		return "\x1b[36m" + s + "\x1b[0m" // cyan
	}
	return "\x1b[90m" + s + "\x1b[0m" // grey
}
