package game

import "time"

// RoundMonitor receives notifications about round progress and outcomes.
// Calls are made while the table is locked: implementations must return
// quickly and must not call back into the Table.
type RoundMonitor interface {
	// OnRoundStart is called when a round is armed.
	OnRoundStart(round uint64, deadline time.Time)

	// OnRoundComplete is called after a round's results were delivered.
	OnRoundComplete(outcome RoundOutcome)
}

// RoundOutcome captures the result of a single round.
type RoundOutcome struct {
	Round       uint64
	Draw        int
	Bets        []Bet
	Winners     []Winner
	Leaderboard string
	ResolvedAt  time.Time
}

// NullRoundMonitor is a no-op implementation.
type NullRoundMonitor struct{}

func (NullRoundMonitor) OnRoundStart(uint64, time.Time) {}
func (NullRoundMonitor) OnRoundComplete(RoundOutcome)   {}

// MultiRoundMonitor fans events out to several monitors.
type MultiRoundMonitor struct {
	monitors []RoundMonitor
}

// NewMultiRoundMonitor builds a composite monitor, pruning nil entries and
// returning a NullRoundMonitor when none remain.
func NewMultiRoundMonitor(monitors ...RoundMonitor) RoundMonitor {
	filtered := make([]RoundMonitor, 0, len(monitors))
	for _, m := range monitors {
		if m != nil {
			filtered = append(filtered, m)
		}
	}

	switch len(filtered) {
	case 0:
		return NullRoundMonitor{}
	case 1:
		return filtered[0]
	}
	return &MultiRoundMonitor{monitors: filtered}
}

func (m *MultiRoundMonitor) OnRoundStart(round uint64, deadline time.Time) {
	for _, monitor := range m.monitors {
		monitor.OnRoundStart(round, deadline)
	}
}

func (m *MultiRoundMonitor) OnRoundComplete(outcome RoundOutcome) {
	for _, monitor := range m.monitors {
		monitor.OnRoundComplete(outcome)
	}
}
