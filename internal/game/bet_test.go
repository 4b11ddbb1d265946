package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBetAcceptsEveryValidNumber(t *testing.T) {
	for number := MinNumber; number <= MaxNumber; number++ {
		for _, stake := range []int{1, 10, 1_000_000} {
			bet, err := ValidateBet(betPayload("alice", number, stake))
			require.NoError(t, err)
			assert.Equal(t, Bet{Name: "alice", Number: number, Stake: stake}, bet)
		}
	}
}

func TestValidateBetRejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"number too low", `{"name":"a","number":0,"betAmount":10}`, ErrInvalidNumber},
		{"number too high", `{"name":"a","number":11,"betAmount":10}`, ErrInvalidNumber},
		{"negative number", `{"name":"a","number":-3,"betAmount":10}`, ErrInvalidNumber},
		{"bad number and bad stake", `{"name":"a","number":42,"betAmount":0}`, ErrInvalidNumber},
		{"zero stake", `{"name":"a","number":5,"betAmount":0}`, ErrInvalidStake},
		{"negative stake", `{"name":"a","number":5,"betAmount":-1}`, ErrInvalidStake},
		{"not json", `place 5 on 3`, ErrMalformedBet},
		{"missing field", `{"name":"a","number":5}`, ErrMalformedBet},
		{"string amount", `{"name":"a","number":5,"betAmount":"10"}`, ErrMalformedBet},
		{"blank name", `{"name":"  ","number":5,"betAmount":10}`, ErrMalformedBet},
		{"extra field", `{"name":"a","number":5,"betAmount":10,"odds":2}`, ErrMalformedBet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateBet([]byte(tt.payload))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRejectionMessagesAreDistinct(t *testing.T) {
	seen := map[string]string{}
	for _, r := range []*Rejection{ErrMalformedBet, ErrInvalidNumber, ErrInvalidStake, ErrNameTaken, ErrAlreadyBet} {
		if prev, ok := seen[r.Message]; ok {
			t.Fatalf("%s and %s share a message", prev, r.Code)
		}
		seen[r.Message] = r.Code
	}
	assert.Equal(t, MsgAlreadyBet, rejectionMessage(ErrNotJoined))
}
