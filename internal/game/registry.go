package game

import (
	"cmp"
	"slices"
	"sync"
)

// Conn is a participant's connection as the table sees it.
type Conn interface {
	ID() string
	Send(text string) error
}

type participant struct {
	conn   Conn
	bet    *Bet
	joined uint64
}

// Entry pairs a connection with its bet for the round, nil if it sat out.
type Entry struct {
	Conn Conn
	Bet  *Bet
}

// Snapshot is the state of a round captured at resolution time.
type Snapshot struct {
	Bets    map[string]Bet
	Entries []Entry
}

// Connections lists every live connection in join order.
func (s Snapshot) Connections() []Conn {
	conns := make([]Conn, len(s.Entries))
	for i, e := range s.Entries {
		conns[i] = e.Conn
	}
	return conns
}

// SortedBets lists the captured bets ordered by name.
func (s Snapshot) SortedBets() []Bet {
	bets := make([]Bet, 0, len(s.Bets))
	for _, b := range s.Bets {
		bets = append(bets, b)
	}
	slices.SortFunc(bets, func(a, b Bet) int { return cmp.Compare(a.Name, b.Name) })
	return bets
}

// Registry tracks connected participants and their pending bets. Every
// method is atomic.
type Registry struct {
	mu           sync.Mutex
	participants map[Conn]*participant
	seq          uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{participants: make(map[Conn]*participant)}
}

// Join registers conn with no bet. It reports false if conn was already
// registered, in which case its pending bet is left alone.
func (r *Registry) Join(conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[conn]; ok {
		return false
	}
	r.seq++
	r.participants[conn] = &participant{conn: conn, joined: r.seq}
	return true
}

// Leave removes conn and reports whether the registry is now empty.
func (r *Registry) Leave(conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.participants, conn)
	return len(r.participants) == 0
}

// PlaceBet stores bet as conn's bet for the current round. The name must not
// be pending for any other participant and conn must not have bet already.
func (r *Registry) PlaceBet(conn Conn, bet Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[conn]
	if !ok {
		return ErrNotJoined
	}
	for other, op := range r.participants {
		if other != conn && op.bet != nil && op.bet.Name == bet.Name {
			return ErrNameTaken
		}
	}
	if p.bet != nil {
		return ErrAlreadyBet
	}

	p.bet = &bet
	return nil
}

// SnapshotAndClear captures the current round's bets and connections and
// resets every bet, keeping connections registered for the next round.
func (r *Registry) SnapshotAndClear() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		Bets:    make(map[string]Bet),
		Entries: make([]Entry, 0, len(r.participants)),
	}
	for _, p := range r.sortedLocked() {
		snap.Entries = append(snap.Entries, Entry{Conn: p.conn, Bet: p.bet})
		if p.bet != nil {
			snap.Bets[p.bet.Name] = *p.bet
			p.bet = nil
		}
	}
	return snap
}

// Connections returns every registered connection in join order.
func (r *Registry) Connections() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := r.sortedLocked()
	conns := make([]Conn, len(sorted))
	for i, p := range sorted {
		conns[i] = p.conn
	}
	return conns
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

// PendingBets returns the number of participants with a bet this round.
func (r *Registry) PendingBets() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, p := range r.participants {
		if p.bet != nil {
			n++
		}
	}
	return n
}

func (r *Registry) sortedLocked() []*participant {
	sorted := make([]*participant, 0, len(r.participants))
	for _, p := range r.participants {
		sorted = append(sorted, p)
	}
	slices.SortFunc(sorted, func(a, b *participant) int {
		return cmp.Compare(a.joined, b.joined)
	})
	return sorted
}
