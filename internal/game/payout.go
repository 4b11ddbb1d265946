package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var payoutMultiplier = decimal.RequireFromString("9.9")

// Winner is one leaderboard line.
type Winner struct {
	Name   string
	Amount decimal.Decimal
}

// Result is the outcome of one round.
type Result struct {
	Draw        int
	Payouts     map[string]decimal.Decimal
	Winners     []Winner
	Leaderboard string
}

// WinAmount is the payout for a winning stake: 9.9x, rounded half-up to
// two decimal places.
func WinAmount(stake int) decimal.Decimal {
	return decimal.NewFromInt(int64(stake)).Mul(payoutMultiplier).Round(2)
}

// Resolve pays every bet whose number equals draw. Winners are ordered by
// amount descending and then by name ascending.
func Resolve(draw int, bets map[string]Bet) Result {
	payouts := make(map[string]decimal.Decimal)
	winners := make([]Winner, 0)

	for name, bet := range bets {
		if bet.Number != draw {
			continue
		}
		amount := WinAmount(bet.Stake)
		payouts[name] = amount
		winners = append(winners, Winner{Name: name, Amount: amount})
	}

	slices.SortFunc(winners, func(a, b Winner) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	return Result{
		Draw:        draw,
		Payouts:     payouts,
		Winners:     winners,
		Leaderboard: leaderboard(winners),
	}
}

// TotalPaid sums every payout of the round.
func (r Result) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, w := range r.Winners {
		total = total.Add(w.Amount)
	}
	return total
}

// MessageFor returns the personal result text for a participant. A nil bet
// means the participant sat the round out.
func (r Result) MessageFor(bet *Bet) string {
	if bet == nil {
		return MsgNotParticipate
	}
	if amount, ok := r.Payouts[bet.Name]; ok && bet.Number == r.Draw {
		return fmt.Sprintf(msgWin, amount.StringFixed(2))
	}
	return fmt.Sprintf(msgLoss, r.Draw)
}

func leaderboard(winners []Winner) string {
	if len(winners) == 0 {
		return MsgNoWinners
	}

	entries := make([]string, len(winners))
	for i, w := range winners {
		entries[i] = w.Name + " - " + w.Amount.StringFixed(2)
	}
	return WinnersPrefix + strings.Join(entries, ", ")
}
