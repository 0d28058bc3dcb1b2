package tui

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/franzer/glitchnav/internal/config"
)

// Run starts the navigation bar TUI with mouse hover tracking.
func Run(settings config.Settings, logger *log.Logger) error {
	m := NewModel(settings, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
