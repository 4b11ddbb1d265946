package game

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/shopspring/decimal"

	"github.com/lox/guessthenumber/internal/randutil"
)

// RoundState is the scheduler state of the table.
type RoundState int

const (
	Idle RoundState = iota
	Running
)

func (s RoundState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Drawer picks the winning number for a round.
type Drawer interface {
	IntRange(lo, hi int) int
}

// FixedDraw always draws the same number.
type FixedDraw int

func (f FixedDraw) IntRange(lo, hi int) int { return int(f) }

// Option configures a Table.
type Option func(*Table)

// WithClock sets the clock used for the round timer.
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithDrawer sets the source of drawn numbers.
func WithDrawer(d Drawer) Option {
	return func(t *Table) { t.drawer = d }
}

// WithRegistry replaces the participant registry.
func WithRegistry(r *Registry) Option {
	return func(t *Table) { t.registry = r }
}

// WithMonitor adds observers of round starts and outcomes.
func WithMonitor(monitors ...RoundMonitor) Option {
	return func(t *Table) { t.monitor = NewMultiRoundMonitor(append([]RoundMonitor{t.monitor}, monitors...)...) }
}

// Table runs recurring rounds for all connected participants. One mutex
// serializes joins, leaves, bet submissions and round resolution, and at most
// one round timer is armed at any time.
type Table struct {
	mu          sync.Mutex
	registry    *Registry
	broadcaster *Broadcaster
	clock       quartz.Clock
	drawer      Drawer
	delay       time.Duration
	logger      *log.Logger
	monitor     RoundMonitor

	state    RoundState
	timer    *quartz.Timer
	round    uint64
	deadline time.Time
	closed   bool
	stats    Stats
}

// NewTable creates an idle table whose rounds last delay.
func NewTable(logger *log.Logger, delay time.Duration, opts ...Option) *Table {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	t := &Table{
		registry:    NewRegistry(),
		broadcaster: NewBroadcaster(logger),
		clock:       quartz.NewReal(),
		delay:       delay,
		logger:      logger.WithPrefix("table"),
		stats:       Stats{TotalPaid: decimal.Zero},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.monitor == nil {
		t.monitor = NullRoundMonitor{}
	}
	if t.drawer == nil {
		t.drawer = randutil.NewLocked(time.Now().UnixNano())
	}
	return t
}

// Join registers a newly opened connection and starts a round if the table
// is idle. If a round is already counting down only conn is told so.
func (t *Table) Join(conn Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.registry.Join(conn) {
		t.logger.Debug("Connection already joined", "conn", conn.ID())
		return
	}
	t.logger.Info("Connection established", "conn", conn.ID(), "participants", t.registry.Len())

	if t.closed {
		return
	}

	switch t.state {
	case Idle:
		t.startRoundLocked()
	case Running:
		if t.stalledLocked() {
			t.logger.Warn("Round timer missed its deadline, re-arming", "round", t.round, "deadline", t.deadline)
			t.startRoundLocked()
			return
		}
		t.broadcaster.SendTo(conn, MsgAlreadyRunning)
	}
}

// Leave removes a closed connection. When the last participant leaves the
// pending round timer is cancelled and the table goes idle.
func (t *Table) Leave(conn Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	empty := t.registry.Leave(conn)
	t.logger.Info("Connection closed", "conn", conn.ID(), "participants", t.registry.Len())

	if empty && t.state == Running {
		t.stopLocked()
		t.logger.Info("Table empty, round cancelled")
	}
}

// Submit validates and admits a bet payload from conn. The outcome is sent
// back to conn only; a rejection is also returned.
func (t *Table) Submit(conn Conn, payload []byte) error {
	bet, err := ValidateBet(payload)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err == nil {
		err = t.registry.PlaceBet(conn, bet)
	}
	if err != nil {
		t.stats.BetsRejected++
		t.logger.Warn("Bet rejected", "conn", conn.ID(), "reason", err)
		t.broadcaster.SendTo(conn, rejectionMessage(err))
		return err
	}

	t.stats.BetsAccepted++
	t.logger.Info("Received bet", "bet", bet, "conn", conn.ID())
	t.broadcaster.SendTo(conn, MsgBetAccepted)
	return nil
}

// State returns the current scheduler state.
func (t *Table) State() RoundState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Close cancels any armed round. Connections stay registered but no further
// rounds are started.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	if t.state == Running {
		t.stopLocked()
	}
	t.logger.Info("Table closed")
}

func (t *Table) startRoundLocked() {
	t.broadcaster.SendToAll(t.registry.Connections(), RoundStartingMessage(t.delay))
	t.armLocked()
	t.logger.Info("New round started", "round", t.round, "delay", t.delay)
	t.monitor.OnRoundStart(t.round, t.deadline)
}

// armLocked replaces any existing timer with a fresh one for the next round.
func (t *Table) armLocked() {
	if t.timer != nil {
		t.timer.Stop()
	}

	t.round++
	round := t.round
	t.deadline = t.clock.Now().Add(t.delay)
	t.timer = t.clock.AfterFunc(t.delay, func() { t.expire(round) }, "table", "round")
	t.state = Running
}

// stopLocked cancels the armed timer. Bumping the round number makes a
// callback that already fired and is waiting on the lock a no-op.
func (t *Table) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.round++
	t.state = Idle
}

func (t *Table) stalledLocked() bool {
	return t.clock.Now().Sub(t.deadline) > t.delay
}

// expire resolves round. Resolution, result delivery and re-arming happen
// under the lock so every participant sees this round's result before the
// next round's start notice.
func (t *Table) expire(round uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running || round != t.round {
		t.logger.Debug("Ignoring stale round timer", "round", round, "current", t.round)
		return
	}
	t.timer = nil

	draw := t.drawer.IntRange(MinNumber, MaxNumber)
	t.logger.Info("Generated number", "round", round, "draw", draw)

	snap := t.registry.SnapshotAndClear()
	result := Resolve(draw, snap.Bets)

	for _, entry := range snap.Entries {
		t.broadcaster.SendTo(entry.Conn, result.MessageFor(entry.Bet))
		t.broadcaster.SendTo(entry.Conn, result.Leaderboard)
	}

	t.stats.record(result, len(snap.Bets))
	t.logger.Info("Round ended", "round", round, "bets", len(snap.Bets), "winners", len(result.Winners), "leaderboard", result.Leaderboard)
	t.monitor.OnRoundComplete(RoundOutcome{
		Round:       round,
		Draw:        draw,
		Bets:        snap.SortedBets(),
		Winners:     result.Winners,
		Leaderboard: result.Leaderboard,
		ResolvedAt:  t.clock.Now(),
	})

	if t.registry.Len() > 0 && !t.closed {
		t.startRoundLocked()
		return
	}
	t.state = Idle
	t.logger.Info("No participants left, table idle")
}

func rejectionMessage(err error) string {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Message
	}
	return MsgMalformedBet
}
