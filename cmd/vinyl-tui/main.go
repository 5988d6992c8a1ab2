package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"vinylchat/internal/app"
	"vinylchat/internal/config"
	"vinylchat/internal/tui"
)

func main() {
	mode := flag.String("mode", "deterministic", "routing mode: auto, deterministic or llm")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs would corrupt the terminal UI.
	logger := app.NewLogger(cfg, io.Discard)

	application, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = application.Close()
	}()

	model := tui.NewModel(application.ChatService, *mode, uuid.NewString())
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
