// Package game implements the shared guess-the-number table.
//
// A single Table runs a recurring timed round for every connected
// participant. Participants submit one guess and stake per round; when the
// round timer fires the table draws a number in [1,10], pays winners 9.9x
// their stake and tells every connection how the round went before arming
// the next round.
//
// # Basic Usage
//
//	table := game.NewTable(logger, 10*time.Second)
//	table.Join(conn)                  // connection opened
//	table.Submit(conn, payload)       // text frame received
//	table.Leave(conn)                 // connection closed
//
// # Deterministic Testing
//
// The round timer and the draw are both injectable:
//
//	clock := quartz.NewMock(t)
//	table := game.NewTable(logger, time.Second,
//	    game.WithClock(clock),
//	    game.WithDrawer(game.FixedDraw(3)))
//	clock.Advance(time.Second).MustWait(ctx) // resolves the round
//
// # Architecture
//
// Table is the round scheduler and delegates to:
//   - ValidateBet: turns a raw payload into a Bet or a rejection
//   - Registry: connections and their pending bets for the current round
//   - Resolve: payouts and the leaderboard for a draw
//   - Broadcaster: best-effort delivery to one or many connections
//
// Every entry point takes the table lock, so joins, leaves, bet submissions
// and round resolution are applied one at a time.
package game
