package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the demo host and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
