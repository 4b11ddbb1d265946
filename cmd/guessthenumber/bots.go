package main

import (
	"context"
	"errors"
	"time"

	"github.com/lox/guessthenumber/cmd/guessthenumber/shared"
	"github.com/lox/guessthenumber/internal/bot"
	"github.com/lox/guessthenumber/internal/client"
	"github.com/lox/guessthenumber/internal/randutil"
)

// BotsCmd connects a fleet of bots that bet every round.
type BotsCmd struct {
	URL      string        `kong:"default='ws://localhost:8080/ws',env='GUESS_URL',help='Server URL'"`
	Count    int           `kong:"default='4',help='Number of bots to connect'"`
	Strategy string        `kong:"default='rand',enum='rand,random,lucky',help='Betting strategy (rand, lucky)'"`
	MaxStake int           `kong:"default='10',help='Largest stake a bot will place'"`
	Seed     *int64        `kong:"help='Deterministic RNG seed for bot choices (optional)'"`
	Wait     time.Duration `kong:"default='0s',help='Wait up to this long for the server to become healthy'"`
	Debug    bool          `kong:"help='Enable debug logging'"`
}

func (c *BotsCmd) Run() error {
	logger := shared.SetupLogger(shared.LevelFor(c.Debug))
	ctx := shared.SetupSignalHandler(logger)

	cfg := bot.RunnerConfig{
		ServerURL: c.URL,
		Count:     c.Count,
		Strategy:  c.Strategy,
		MaxStake:  c.MaxStake,
		Seed:      randutil.Seed(c.Seed),
	}

	if c.Wait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, c.Wait)
		err := client.WaitForHealthy(waitCtx, c.URL)
		cancel()
		if err != nil {
			return err
		}
	}

	fleet, err := bot.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Bots connected", "count", len(fleet.Bots), "strategy", c.Strategy, "seed", cfg.Seed)

	err = fleet.Run(ctx)

	totals := fleet.Totals()
	logger.Info("Bots finished",
		"rounds", totals.Rounds,
		"bets", totals.Bets,
		"wins", totals.Wins,
		"rejected", totals.Rejected,
		"staked", totals.Staked,
		"won", totals.Won.StringFixed(2))

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
