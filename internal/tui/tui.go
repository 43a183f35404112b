// Package tui is the live dashboard: Tattva and planetary hour countdowns,
// the current Nakshatra and the moon phase, refreshed every second.
package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program for the dashboard.
// The program uses the alternate screen buffer for a clean TUI experience.
func NewProgram(cfg Config, opts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(NewModel(cfg), allOpts...)
}

// Run creates and runs the dashboard, blocking until it exits.
func Run(cfg Config, opts ...tea.ProgramOption) error {
	if _, err := NewProgram(cfg, opts...).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given writer.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
