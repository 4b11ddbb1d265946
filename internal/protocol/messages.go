package protocol

// BetRequest is the only message a client sends: one guess and stake for the
// current round. Pointer fields let the decoder tell a missing field apart
// from a zero value.
type BetRequest struct {
	Name      *string `json:"name"`
	Number    *int    `json:"number"`
	BetAmount *int    `json:"betAmount"`
}

// NewBetRequest builds a fully populated request.
func NewBetRequest(name string, number, betAmount int) *BetRequest {
	return &BetRequest{
		Name:      &name,
		Number:    &number,
		BetAmount: &betAmount,
	}
}

// Complete reports whether every field was present in the payload.
func (r *BetRequest) Complete() bool {
	return r != nil && r.Name != nil && r.Number != nil && r.BetAmount != nil
}
