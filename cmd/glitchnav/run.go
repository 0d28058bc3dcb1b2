package glitchnav

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/franzer/glitchnav/internal/tui"
	"github.com/spf13/cobra"
)

var flagLogFile string

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive navigation bar",
		Long:  "Open the navigation bar in the terminal. Hover links with the mouse, or tab through them, to trigger the scramble-reveal effect.",
		RunE:  runTUI,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagLogFile, "log-file", "", "write session lifecycle logs to this file (the TUI owns stderr)")
}

func runTUI(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	var tuiLogger *log.Logger
	if flagLogFile != "" {
		f, err := tea.LogToFile(flagLogFile, "glitchnav")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		tuiLogger = log.New(f, "glitchnav: ", log.LstdFlags)
	}
	return tui.Run(settings, tuiLogger)
}
