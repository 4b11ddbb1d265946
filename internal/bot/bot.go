package bot

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/lox/guessthenumber/internal/client"
)

var ErrDisconnected = errors.New("bot disconnected from server")

// Conn is the part of a client connection a bot needs.
type Conn interface {
	PlaceBet(name string, number, amount int) error
	Messages() <-chan string
	Close() error
}

// Results tallies a bot's play.
type Results struct {
	Rounds   int
	Bets     int
	Wins     int
	Rejected int
	Staked   int
	Won      decimal.Decimal
}

// Bot places one bet per round on a single connection.
type Bot struct {
	Name     string
	conn     Conn
	strategy Strategy
	logger   *log.Logger

	mu      sync.Mutex
	results Results
	pending int
}

// New creates a bot that plays through conn.
func New(name string, conn Conn, strategy Strategy, logger *log.Logger) *Bot {
	return &Bot{
		Name:     name,
		conn:     conn,
		strategy: strategy,
		logger:   logger.WithPrefix("bot").With("bot", name),
		results:  Results{Won: decimal.Zero},
	}
}

// Run plays until ctx is cancelled or the server goes away.
func (b *Bot) Run(ctx context.Context) error {
	defer func() { _ = b.conn.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case text, ok := <-b.conn.Messages():
			if !ok {
				return ErrDisconnected
			}
			if err := b.handle(text); err != nil {
				return err
			}
		}
	}
}

// Results returns a snapshot of the bot's tally.
func (b *Bot) Results() Results {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.results
}

func (b *Bot) handle(text string) error {
	kind := client.Classify(text)
	b.logger.Debug("Server message", "kind", kind, "text", text)

	switch kind {
	case client.KindRoundStarting, client.KindAlreadyRunning:
		return b.bet()

	case client.KindAccepted:
		b.mu.Lock()
		b.results.Bets++
		b.results.Staked += b.pending
		b.mu.Unlock()

	case client.KindRejected:
		b.mu.Lock()
		b.results.Rejected++
		b.mu.Unlock()
		b.logger.Warn("Bet rejected", "reason", text)

	case client.KindWin:
		amount, _ := client.Winnings(text)
		b.mu.Lock()
		b.results.Wins++
		b.results.Won = b.results.Won.Add(amount)
		b.mu.Unlock()
		b.logger.Info("Won round", "amount", amount.StringFixed(2))

	case client.KindLeaderboard:
		b.mu.Lock()
		b.results.Rounds++
		b.mu.Unlock()
	}
	return nil
}

func (b *Bot) bet() error {
	number, stake := b.strategy.NextBet()

	b.mu.Lock()
	b.pending = stake
	b.mu.Unlock()

	b.logger.Debug("Placing bet", "number", number, "stake", stake)
	return b.conn.PlaceBet(b.Name, number, stake)
}
