package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/guessthenumber/internal/game"
)

// Strategy chooses a bot's guess and stake for a round.
type Strategy interface {
	NextBet() (number, stake int)
}

// RandBot guesses uniformly and stakes between 1 and MaxStake.
type RandBot struct {
	rng      *rand.Rand
	maxStake int
}

// NewRandBot creates a RandBot drawing from rng.
func NewRandBot(rng *rand.Rand, maxStake int) *RandBot {
	if maxStake < 1 {
		maxStake = 1
	}
	return &RandBot{rng: rng, maxStake: maxStake}
}

func (r *RandBot) NextBet() (int, int) {
	number := game.MinNumber + r.rng.IntN(game.MaxNumber-game.MinNumber+1)
	return number, 1 + r.rng.IntN(r.maxStake)
}

// LuckyBot always backs the same number with the same stake.
type LuckyBot struct {
	Number int
	Stake  int
}

func (l LuckyBot) NextBet() (int, int) {
	return l.Number, l.Stake
}

// NewStrategy builds a strategy by name.
func NewStrategy(name string, rng *rand.Rand, maxStake int) (Strategy, error) {
	switch name {
	case "rand", "random":
		return NewRandBot(rng, maxStake), nil
	case "lucky":
		number := game.MinNumber + rng.IntN(game.MaxNumber-game.MinNumber+1)
		return LuckyBot{Number: number, Stake: maxStake}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
