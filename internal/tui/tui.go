package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program that loads its dashboard with
// load. The program uses the alternate screen buffer.
func NewProgram(ctx context.Context, load LoadFunc, opts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(NewAppModel(ctx, load), allOpts...)
}

// Run creates and runs a TUI program, blocking until it exits. A failed
// load is returned as the error.
func Run(ctx context.Context, load LoadFunc, opts ...tea.ProgramOption) error {
	final, err := NewProgram(ctx, load, opts...).Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if m, ok := final.(AppModel); ok && m.Err != nil {
		return m.Err
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given writer.
// Useful for testing or redirecting output.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
