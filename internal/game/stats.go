package game

import "github.com/shopspring/decimal"

// Stats summarises table activity since start.
type Stats struct {
	State          RoundState
	Participants   int
	PendingBets    int
	RoundsResolved uint64
	BetsAccepted   uint64
	BetsRejected   uint64
	BetsSettled    uint64
	Winners        uint64
	TotalPaid      decimal.Decimal
	LastDraw       int
}

func (s *Stats) record(result Result, bets int) {
	s.RoundsResolved++
	s.BetsSettled += uint64(bets)
	s.Winners += uint64(len(result.Winners))
	s.TotalPaid = s.TotalPaid.Add(result.TotalPaid())
	s.LastDraw = result.Draw
}

// Stats returns a copy of the table statistics.
func (t *Table) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats
	s.State = t.state
	s.Participants = t.registry.Len()
	s.PendingBets = t.registry.PendingBets()
	return s
}
