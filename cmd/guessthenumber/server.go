package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lox/guessthenumber/cmd/guessthenumber/shared"
	"github.com/lox/guessthenumber/internal/game"
	"github.com/lox/guessthenumber/internal/randutil"
	"github.com/lox/guessthenumber/internal/server"
)

// ServerCmd runs the table. Flags and environment override the HCL file.
type ServerCmd struct {
	Config      string `kong:"default='guessthenumber.hcl',env='GUESS_CONFIG',help='HCL configuration file'"`
	Addr        string `kong:"env='GUESS_ADDR',help='Server address (host:port)'"`
	RoundDelay  string `kong:"env='GUESS_ROUND_DELAY',help='Time between round start and draw, e.g. 10s'"`
	LogLevel    string `kong:"env='GUESS_LOG_LEVEL',help='Log level (debug, info, warn, error)'"`
	Seed        *int64 `kong:"env='GUESS_SEED',help='Deterministic RNG seed for draws (optional)'"`
	HistoryFile string `kong:"env='GUESS_HISTORY_FILE',help='Write recent round results to this JSON file'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	logger := shared.SetupLogger(cfg.Level())

	seed := randutil.Seed(cfg.Game.Seed)
	if cfg.Game.Seed != nil {
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		logger.Info("Using random seed", "seed", seed)
	}

	history := server.NewRoundHistory(logger, cfg.Game.HistorySize, cfg.Game.HistoryFile)
	table := game.NewTable(logger, cfg.RoundDelay(),
		game.WithDrawer(randutil.NewLocked(seed)),
		game.WithMonitor(history))
	s := server.NewServer(logger, table,
		server.WithSendBuffer(cfg.Game.SendBuffer),
		server.WithHistory(history))

	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger.Info("Starting guess-the-number server",
		"address", addr,
		"round_delay", cfg.RoundDelay(),
		"send_buffer", cfg.Game.SendBuffer,
		"history_file", cfg.Game.HistoryFile)

	ctx := shared.SetupSignalHandler(logger)

	// History outlives the listener so the final round is flushed.
	historyCtx, stopHistory := context.WithCancel(context.Background())
	historyDone := make(chan struct{})
	go func() {
		history.Run(historyCtx)
		close(historyDone)
	}()
	defer func() {
		stopHistory()
		<-historyDone
	}()

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

// loadConfig reads the HCL file and layers flag values over it.
func (c *ServerCmd) loadConfig() (*server.Config, error) {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return nil, err
	}

	if c.RoundDelay != "" {
		cfg.Game.RoundDelay = c.RoundDelay
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Debug {
		cfg.Server.LogLevel = "debug"
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}
	if c.HistoryFile != "" {
		cfg.Game.HistoryFile = c.HistoryFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
