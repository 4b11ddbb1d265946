package game

import (
	"fmt"
	"time"
)

// Texts sent to clients. Each category is distinguishable by its wording.
const (
	MsgBetAccepted    = "Bet accepted!"
	MsgMalformedBet   = "Invalid bet! Send JSON with name, number and betAmount."
	MsgInvalidNumber  = "Number must be between 1 and 10!"
	MsgInvalidStake   = "Bet amount must be greater than 0!"
	MsgNameTaken      = "This name is already taken, choose another one!"
	MsgAlreadyBet     = "Only one bet per round is allowed!"
	MsgAlreadyRunning = "The game is already running, place your bet!"
	MsgNotParticipate = "You did not participate in this round."
	MsgNoWinners      = "There were no winners in this round."
)

// Prefixes of the texts that carry values.
const (
	RoundStartingPrefix = "Round started!"
	WinPrefix           = "Congratulations, you won!"
	LossPrefix          = "Unfortunately, you lost!"
	WinnersPrefix       = "Winners of the round: "
)

const (
	msgRoundStarting = RoundStartingPrefix + " The number will be drawn in %s, place your bets!"
	msgWin           = WinPrefix + " Your winnings are: %s"
	msgLoss          = LossPrefix + " The number was %d"
)

// RoundStartingMessage announces a freshly armed round.
func RoundStartingMessage(delay time.Duration) string {
	return fmt.Sprintf(msgRoundStarting, delay)
}
