package bot

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lox/guessthenumber/internal/client"
	"github.com/lox/guessthenumber/internal/randutil"
)

// RunnerConfig describes a fleet of bots.
type RunnerConfig struct {
	ServerURL string
	Count     int
	Strategy  string
	MaxStake  int
	Seed      int64
}

// Fleet is a set of running bots.
type Fleet struct {
	Bots []*Bot
}

// Totals sums the results of every bot.
func (f *Fleet) Totals() Results {
	total := Results{Won: decimal.Zero}
	for _, b := range f.Bots {
		r := b.Results()
		total.Won = total.Won.Add(r.Won)
		total.Rounds += r.Rounds
		total.Bets += r.Bets
		total.Wins += r.Wins
		total.Rejected += r.Rejected
		total.Staked += r.Staked
	}
	return total
}

// Connect dials cfg.Count bots. Each bot gets its own seeded strategy and a
// unique name.
func Connect(ctx context.Context, cfg RunnerConfig, logger *log.Logger) (*Fleet, error) {
	fleet := &Fleet{}
	for i := 0; i < cfg.Count; i++ {
		strategy, err := NewStrategy(cfg.Strategy, randutil.New(cfg.Seed+int64(i)), cfg.MaxStake)
		if err != nil {
			fleet.close()
			return nil, err
		}

		conn, err := client.Dial(ctx, cfg.ServerURL, logger)
		if err != nil {
			fleet.close()
			return nil, fmt.Errorf("bot %d: %w", i, err)
		}

		name := fmt.Sprintf("bot-%s", uuid.NewString()[:8])
		fleet.Bots = append(fleet.Bots, New(name, conn, strategy, logger))
	}
	return fleet, nil
}

// Run plays every bot until ctx is cancelled or one of them fails.
func (f *Fleet) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, b := range f.Bots {
		g.Go(func() error {
			return b.Run(ctx)
		})
	}
	return g.Wait()
}

func (f *Fleet) close() {
	for _, b := range f.Bots {
		_ = b.conn.Close()
	}
}
