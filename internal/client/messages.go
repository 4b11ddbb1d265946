package client

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lox/guessthenumber/internal/game"
)

// Kind is the category of a server message.
type Kind int

const (
	KindUnknown Kind = iota
	KindAccepted
	KindRejected
	KindRoundStarting
	KindAlreadyRunning
	KindWin
	KindLoss
	KindNotParticipated
	KindLeaderboard
)

func (k Kind) String() string {
	switch k {
	case KindAccepted:
		return "accepted"
	case KindRejected:
		return "rejected"
	case KindRoundStarting:
		return "round_starting"
	case KindAlreadyRunning:
		return "already_running"
	case KindWin:
		return "win"
	case KindLoss:
		return "loss"
	case KindNotParticipated:
		return "not_participated"
	case KindLeaderboard:
		return "leaderboard"
	default:
		return "unknown"
	}
}

var rejections = map[string]bool{
	game.MsgMalformedBet:  true,
	game.MsgInvalidNumber: true,
	game.MsgInvalidStake:  true,
	game.MsgNameTaken:     true,
	game.MsgAlreadyBet:    true,
}

// Classify returns the category of a server message.
func Classify(text string) Kind {
	switch {
	case text == game.MsgBetAccepted:
		return KindAccepted
	case rejections[text]:
		return KindRejected
	case text == game.MsgAlreadyRunning:
		return KindAlreadyRunning
	case text == game.MsgNotParticipate:
		return KindNotParticipated
	case text == game.MsgNoWinners, strings.HasPrefix(text, game.WinnersPrefix):
		return KindLeaderboard
	case strings.HasPrefix(text, game.RoundStartingPrefix):
		return KindRoundStarting
	case strings.HasPrefix(text, game.WinPrefix):
		return KindWin
	case strings.HasPrefix(text, game.LossPrefix):
		return KindLoss
	default:
		return KindUnknown
	}
}

// EndsRound reports whether k is the last message of a round resolution.
func (k Kind) EndsRound() bool {
	return k == KindLeaderboard
}

// Winnings extracts the amount from a win message.
func Winnings(text string) (decimal.Decimal, bool) {
	if Classify(text) != KindWin {
		return decimal.Zero, false
	}
	i := strings.LastIndex(text, ": ")
	if i < 0 {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(text[i+2:]))
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}
