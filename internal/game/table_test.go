package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const testDelay = 10 * time.Second

func newTestTable(t *testing.T, draw int) (*Table, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	table := NewTable(testLogger(), testDelay, WithClock(clock), WithDrawer(FixedDraw(draw)))
	t.Cleanup(table.Close)
	return table, clock
}

func finishRound(t *testing.T, clock *quartz.Mock) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(testDelay).MustWait(ctx)
}

func TestTableFirstJoinStartsRound(t *testing.T) {
	table, _ := newTestTable(t, 3)
	a, b := newFakeConn("a"), newFakeConn("b")

	assert.Equal(t, Idle, table.State())

	table.Join(a)
	assert.Equal(t, Running, table.State())
	assert.Equal(t, []string{RoundStartingMessage(testDelay)}, a.Drain())

	table.Join(b)
	assert.Equal(t, Running, table.State())
	assert.Equal(t, []string{MsgAlreadyRunning}, b.Drain())
	assert.Empty(t, a.Drain(), "existing participants are not told about newcomers")
}

func TestTableRoundWithoutBets(t *testing.T) {
	table, clock := newTestTable(t, 7)
	a := newFakeConn("a")
	table.Join(a)
	a.Drain()

	finishRound(t, clock)

	assert.Equal(t, []string{
		MsgNotParticipate,
		MsgNoWinners,
		RoundStartingMessage(testDelay),
	}, a.Drain())
	assert.Equal(t, Running, table.State(), "round re-arms while someone is connected")

	table.Leave(a)
	assert.Equal(t, Idle, table.State())
}

func TestTableTwoWinnersScenario(t *testing.T) {
	table, clock := newTestTable(t, 3)
	a, b := newFakeConn("a"), newFakeConn("b")

	table.Join(a)
	require.NoError(t, table.Submit(a, betPayload("B", 3, 10)))
	table.Join(b)
	require.NoError(t, table.Submit(b, betPayload("A", 3, 1)))

	assert.Equal(t, []string{RoundStartingMessage(testDelay), MsgBetAccepted}, a.Drain())
	assert.Equal(t, []string{MsgAlreadyRunning, MsgBetAccepted}, b.Drain())

	finishRound(t, clock)

	leaderboard := "Winners of the round: B - 99.00, A - 9.90"
	assert.Equal(t, []string{
		"Congratulations, you won! Your winnings are: 99.00",
		leaderboard,
		RoundStartingMessage(testDelay),
	}, a.Drain())
	assert.Equal(t, []string{
		"Congratulations, you won! Your winnings are: 9.90",
		leaderboard,
		RoundStartingMessage(testDelay),
	}, b.Drain())
}

func TestTableWinnerLoserAndSpectator(t *testing.T) {
	table, clock := newTestTable(t, 1)
	winner, loser, spectator := newFakeConn("w"), newFakeConn("l"), newFakeConn("s")
	table.Join(winner)
	table.Join(loser)
	table.Join(spectator)

	require.NoError(t, table.Submit(winner, betPayload("win", 1, 100)))
	require.NoError(t, table.Submit(loser, betPayload("lose", 2, 10)))
	for _, c := range []*fakeConn{winner, loser, spectator} {
		c.Drain()
	}

	finishRound(t, clock)

	board := "Winners of the round: win - 990.00"
	assert.Equal(t, []string{"Congratulations, you won! Your winnings are: 990.00", board}, winner.Drain()[:2])
	assert.Equal(t, []string{"Unfortunately, you lost! The number was 1", board}, loser.Drain()[:2])
	assert.Equal(t, []string{MsgNotParticipate, board}, spectator.Drain()[:2])
}

func TestTableRejectionsGoToSubmitterOnly(t *testing.T) {
	table, _ := newTestTable(t, 5)
	a, b := newFakeConn("a"), newFakeConn("b")
	table.Join(a)
	table.Join(b)
	a.Drain()
	b.Drain()

	require.NoError(t, table.Submit(a, betPayload("alice", 5, 10)))
	assert.ErrorIs(t, table.Submit(a, betPayload("alice", 5, 10)), ErrAlreadyBet)
	assert.ErrorIs(t, table.Submit(b, betPayload("alice", 4, 1)), ErrNameTaken)
	assert.ErrorIs(t, table.Submit(b, []byte("garbage")), ErrMalformedBet)
	assert.ErrorIs(t, table.Submit(b, betPayload("bob", 11, 1)), ErrInvalidNumber)
	assert.ErrorIs(t, table.Submit(b, betPayload("bob", 10, 0)), ErrInvalidStake)

	assert.Equal(t, []string{MsgBetAccepted, MsgAlreadyBet}, a.Drain())
	assert.Equal(t, []string{MsgNameTaken, MsgMalformedBet, MsgInvalidNumber, MsgInvalidStake}, b.Drain())

	stats := table.Stats()
	assert.Equal(t, uint64(1), stats.BetsAccepted)
	assert.Equal(t, uint64(5), stats.BetsRejected)
	assert.Equal(t, 1, stats.PendingBets)
}

func TestTableLastLeaveCancelsRound(t *testing.T) {
	table, clock := newTestTable(t, 5)
	a, b := newFakeConn("a"), newFakeConn("b")
	table.Join(a)
	table.Join(b)

	table.Leave(a)
	assert.Equal(t, Running, table.State(), "round keeps running while anyone is connected")

	table.Leave(b)
	assert.Equal(t, Idle, table.State())

	_, armed := clock.Peek()
	assert.False(t, armed, "no timer may stay armed on an empty table")

	finishRound(t, clock)
	assert.Equal(t, uint64(0), table.Stats().RoundsResolved)

	c := newFakeConn("c")
	table.Join(c)
	assert.Equal(t, Running, table.State())
	assert.Equal(t, []string{RoundStartingMessage(testDelay)}, c.Drain())
}

func TestTableExpiryWithEmptiedRegistryGoesIdle(t *testing.T) {
	table, clock := newTestTable(t, 5)
	a := newFakeConn("a")
	table.Join(a)

	// Simulate a timer that fires for a round whose participants are gone
	// without the leave path having cancelled it.
	table.mu.Lock()
	table.registry.Leave(a)
	table.mu.Unlock()

	finishRound(t, clock)

	assert.Equal(t, Idle, table.State())
	assert.Equal(t, uint64(1), table.Stats().RoundsResolved)
	_, armed := clock.Peek()
	assert.False(t, armed)
}

func TestTableBetsAfterResolutionBelongToNextRound(t *testing.T) {
	table, clock := newTestTable(t, 2)
	a := newFakeConn("a")
	table.Join(a)
	require.NoError(t, table.Submit(a, betPayload("alice", 2, 1)))

	finishRound(t, clock)
	require.NoError(t, table.Submit(a, betPayload("alice", 2, 10)), "name and bet slot are free again")
	a.Drain()

	finishRound(t, clock)
	msgs := a.Drain()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "Congratulations, you won! Your winnings are: 99.00", msgs[0])

	stats := table.Stats()
	assert.Equal(t, uint64(2), stats.RoundsResolved)
	assert.Equal(t, uint64(2), stats.BetsSettled)
	assert.Equal(t, "108.90", stats.TotalPaid.StringFixed(2))
	assert.Equal(t, 2, stats.LastDraw)
}

func TestTableResultsPrecedeNextRoundNotice(t *testing.T) {
	table, clock := newTestTable(t, 4)
	conns := make([]*fakeConn, 5)
	for i := range conns {
		conns[i] = newFakeConn(fmt.Sprintf("c%d", i))
		table.Join(conns[i])
		conns[i].Drain()
	}

	for round := 0; round < 3; round++ {
		finishRound(t, clock)
		for _, c := range conns {
			assert.Equal(t, []string{MsgNotParticipate, MsgNoWinners, RoundStartingMessage(testDelay)}, c.Drain())
		}
	}
}

func TestTableSendFailureDoesNotAbortRound(t *testing.T) {
	table, clock := newTestTable(t, 6)
	broken, ok := newFakeConn("broken"), newFakeConn("ok")
	table.Join(broken)
	table.Join(ok)
	require.NoError(t, table.Submit(ok, betPayload("okay", 6, 1)))
	ok.Drain()
	broken.fail()

	finishRound(t, clock)

	msgs := ok.Drain()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Congratulations, you won! Your winnings are: 9.90", msgs[0])
	assert.Equal(t, Running, table.State(), "a participant that cannot receive is not removed")
}

func TestTableRearmsStalledTimer(t *testing.T) {
	table, _ := newTestTable(t, 6)
	a, b := newFakeConn("a"), newFakeConn("b")
	table.Join(a)
	a.Drain()

	table.mu.Lock()
	staleRound := table.round
	table.deadline = table.deadline.Add(-3 * testDelay)
	table.mu.Unlock()

	table.Join(b)

	assert.Equal(t, []string{RoundStartingMessage(testDelay)}, a.Drain())
	assert.Equal(t, []string{RoundStartingMessage(testDelay)}, b.Drain())

	table.mu.Lock()
	assert.Greater(t, table.round, staleRound)
	table.mu.Unlock()

	// A late callback for the stalled round is ignored.
	table.expire(staleRound)
	assert.Empty(t, a.Drain())
}

func TestTableCloseStopsRounds(t *testing.T) {
	table, clock := newTestTable(t, 6)
	a := newFakeConn("a")
	table.Join(a)
	a.Drain()

	table.Close()
	assert.Equal(t, Idle, table.State())

	finishRound(t, clock)
	assert.Empty(t, a.Drain())

	table.Join(newFakeConn("late"))
	assert.Equal(t, Idle, table.State())
}

func TestTableConcurrentTriggers(t *testing.T) {
	table, clock := newTestTable(t, 5)
	const n = 32

	conns := make([]*fakeConn, n)
	for i := range conns {
		conns[i] = newFakeConn(fmt.Sprintf("c%d", i))
	}

	var g errgroup.Group
	for i, c := range conns {
		g.Go(func() error {
			table.Join(c)
			_ = table.Submit(c, betPayload("shared", 5, 1))
			_ = table.Submit(c, betPayload(fmt.Sprintf("p%d", i), 5, 1))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	stats := table.Stats()
	assert.Equal(t, n, stats.Participants)
	assert.Equal(t, n, stats.PendingBets, "each connection holds exactly one bet")

	finishRound(t, clock)
	assert.Equal(t, uint64(n), table.Stats().Winners)

	for _, c := range conns {
		g.Go(func() error {
			table.Leave(c)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, Idle, table.State())
	_, armed := clock.Peek()
	assert.False(t, armed)
}
