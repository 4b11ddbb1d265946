package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Type identifies a parsed input line.
type Type int

const (
	Bet Type = iota
	Raw
	Help
	Quit
)

// Command is one line of user input.
type Command struct {
	Type    Type
	Name    string
	Number  int
	Amount  int
	Payload string
}

var ErrEmpty = errors.New("empty input")

// Usage describes the accepted input.
const Usage = `Commands:
  <name> <number> <amount>   bet <amount> on <number> (1-10) as <name>
  <number> <amount>          bet using the default name
  raw <json>                 send a raw payload
  help                       show this help
  quit                       leave the table`

// Parse interprets a line typed by the player. defaultName is used when the
// line only carries a number and an amount.
func Parse(line, defaultName string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, ErrEmpty
	}

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "help", "?":
		return Command{Type: Help}, nil
	case "quit", "exit", "q":
		return Command{Type: Quit}, nil
	case "raw":
		payload := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		if payload == "" {
			return Command{}, fmt.Errorf("raw needs a payload")
		}
		return Command{Type: Raw, Payload: payload}, nil
	}

	var name, number, amount string
	switch len(fields) {
	case 2:
		if defaultName == "" {
			return Command{}, fmt.Errorf("no default name set, use: <name> <number> <amount>")
		}
		name, number, amount = defaultName, fields[0], fields[1]
	case 3:
		name, number, amount = fields[0], fields[1], fields[2]
	default:
		return Command{}, fmt.Errorf("unrecognised input %q, type help", line)
	}

	n, err := strconv.Atoi(number)
	if err != nil {
		return Command{}, fmt.Errorf("number must be an integer: %q", number)
	}
	a, err := strconv.Atoi(amount)
	if err != nil {
		return Command{}, fmt.Errorf("amount must be an integer: %q", amount)
	}

	return Command{Type: Bet, Name: name, Number: n, Amount: a}, nil
}
