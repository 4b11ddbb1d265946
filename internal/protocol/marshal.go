package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrIncomplete   = errors.New("protocol: missing field")
	ErrTrailingData = errors.New("protocol: trailing data after message")
	ErrEmptyPayload = errors.New("protocol: empty payload")
)

// Marshal encodes a bet request as the JSON text frame the server expects.
func Marshal(req *BetRequest) ([]byte, error) {
	if !req.Complete() {
		return nil, ErrIncomplete
	}
	return json.Marshal(req)
}

// UnmarshalBet decodes a bet payload strictly: unknown fields, missing or
// null fields, wrongly typed values and trailing data are all errors.
func UnmarshalBet(data []byte) (*BetRequest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyPayload
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var req BetRequest
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decode bet: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	if !req.Complete() {
		return nil, ErrIncomplete
	}
	return &req, nil
}
