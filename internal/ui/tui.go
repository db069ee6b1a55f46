// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/smarttask/internal/todo"
)

// Run starts the TUI over store and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, store *todo.Store, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	return runProgram(ctx, NewModel(store, opts), tea.WithAltScreen())
}

func runProgram(ctx context.Context, model *Model, opts ...tea.ProgramOption) error {
	opts = append(opts, tea.WithContext(ctx))
	program := tea.NewProgram(model, opts...)
	_, err := program.Run()
	return err
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
