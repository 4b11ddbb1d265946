package game

import (
	"fmt"
	"strings"

	"github.com/lox/guessthenumber/internal/protocol"
)

const (
	MinNumber = 1
	MaxNumber = 10
)

// Bet is a guess and stake accepted for one round.
type Bet struct {
	Name   string
	Number int
	Stake  int
}

func (b Bet) String() string {
	return fmt.Sprintf("%s: number=%d stake=%d", b.Name, b.Number, b.Stake)
}

// Rejection is returned when a bet cannot be admitted. Message is the text
// sent back to the submitting connection.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string {
	return "bet rejected: " + r.Code
}

var (
	ErrMalformedBet  = &Rejection{Code: "malformed_bet", Message: MsgMalformedBet}
	ErrInvalidNumber = &Rejection{Code: "invalid_number_range", Message: MsgInvalidNumber}
	ErrInvalidStake  = &Rejection{Code: "invalid_stake_amount", Message: MsgInvalidStake}
	ErrNameTaken     = &Rejection{Code: "name_taken", Message: MsgNameTaken}
	ErrAlreadyBet    = &Rejection{Code: "already_bet", Message: MsgAlreadyBet}

	// ErrNotJoined is reported for a connection the registry does not know.
	// Clients see the same text as ErrAlreadyBet.
	ErrNotJoined = &Rejection{Code: "not_joined", Message: MsgAlreadyBet}
)

// ValidateBet decodes a raw payload and checks the per-bet rules. Name
// uniqueness and one-bet-per-round depend on the table and are checked by
// the Registry.
func ValidateBet(payload []byte) (Bet, error) {
	req, err := protocol.UnmarshalBet(payload)
	if err != nil {
		return Bet{}, ErrMalformedBet
	}
	if strings.TrimSpace(*req.Name) == "" {
		return Bet{}, ErrMalformedBet
	}
	if *req.Number < MinNumber || *req.Number > MaxNumber {
		return Bet{}, ErrInvalidNumber
	}
	if *req.BetAmount <= 0 {
		return Bet{}, ErrInvalidStake
	}

	return Bet{
		Name:   *req.Name,
		Number: *req.Number,
		Stake:  *req.BetAmount,
	}, nil
}
