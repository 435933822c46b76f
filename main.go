package main

import (
	"fmt"
	"log/slog"
	"os"

	"agenda_tui/internal"
	"agenda_tui/internal/config"
	"agenda_tui/internal/countdown"
	"agenda_tui/internal/project"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	logger, closeLog := newLogger(settings.LogPath)
	defer closeLog()

	var store project.Store
	repo, err := project.NewRepository(settings.DatabasePath)
	if err != nil {
		logger.Warn("opening database, continuing without persistence", "path", settings.DatabasePath, "error", err)
		repo = nil
	} else {
		store = repo
	}

	registry, err := project.NewRegistry(store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := countdown.New(countdown.Config{}, logger)
	defer engine.Stop()

	m := internal.NewModel(registry, engine, repo, settings, logger)
	defer m.Close()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// newLogger opens a file-backed slog logger. The TUI owns the terminal, so
// without a configured log path everything is discarded.
func newLogger(path string) (*slog.Logger, func()) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return slog.New(slog.DiscardHandler), func() {}
	}

	return slog.New(slog.NewTextHandler(file, nil)), func() { file.Close() }
}
