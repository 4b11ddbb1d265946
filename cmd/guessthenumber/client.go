package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/guessthenumber/cmd/guessthenumber/shared"
	"github.com/lox/guessthenumber/internal/client"
	"github.com/lox/guessthenumber/internal/tui"
)

// ClientCmd connects an interactive player to a server.
type ClientCmd struct {
	URL     string `kong:"default='ws://localhost:8080/ws',env='GUESS_URL',help='Server URL'"`
	Name    string `kong:"help='Default name used for bets typed as <number> <amount>'"`
	LogFile string `kong:"help='Write client logs to this file'"`
	NoColor bool   `kong:"help='Disable colored output'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *ClientCmd) Run() error {
	// The terminal belongs to the TUI, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := shared.NewLogger(out, shared.LevelFor(c.Debug))

	if c.NoColor {
		tui.DisableColor()
	}

	conn, err := client.Dial(context.Background(), c.URL, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("Connected", "url", c.URL, "name", c.Name)

	model := tui.NewModel(conn, c.Name, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("TUI exited with error", "error", err)
		return err
	}
	return nil
}

var _ tui.Conn = (*client.Client)(nil)
