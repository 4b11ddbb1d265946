package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/lox/guessthenumber/internal/fileutil"
	"github.com/lox/guessthenumber/internal/game"
)

const defaultHistorySize = 20

// RoundRecord is the persisted summary of one resolved round.
type RoundRecord struct {
	Round      uint64          `json:"round"`
	Draw       int             `json:"draw"`
	Bets       int             `json:"bets"`
	Staked     int             `json:"staked"`
	Winners    []WinnerRecord  `json:"winners"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	ResolvedAt time.Time       `json:"resolvedAt"`
}

// WinnerRecord is one winner of a round.
type WinnerRecord struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// RoundHistory keeps the most recent round outcomes and optionally mirrors
// them to a JSON file. It implements game.RoundMonitor.
type RoundHistory struct {
	logger *log.Logger
	limit  int
	path   string

	mu      sync.Mutex
	records []RoundRecord

	dirty chan struct{}
}

// NewRoundHistory keeps up to limit rounds. When path is non-empty Run
// writes the history there after every round.
func NewRoundHistory(logger *log.Logger, limit int, path string) *RoundHistory {
	if limit < 1 {
		limit = defaultHistorySize
	}
	return &RoundHistory{
		logger: logger.WithPrefix("history"),
		limit:  limit,
		path:   path,
		dirty:  make(chan struct{}, 1),
	}
}

func (h *RoundHistory) OnRoundStart(round uint64, deadline time.Time) {
	h.logger.Debug("Round armed", "round", round, "deadline", deadline)
}

func (h *RoundHistory) OnRoundComplete(outcome game.RoundOutcome) {
	record := RoundRecord{
		Round:      outcome.Round,
		Draw:       outcome.Draw,
		Bets:       len(outcome.Bets),
		Winners:    make([]WinnerRecord, 0, len(outcome.Winners)),
		TotalPaid:  decimal.Zero,
		ResolvedAt: outcome.ResolvedAt,
	}
	for _, b := range outcome.Bets {
		record.Staked += b.Stake
	}
	for _, w := range outcome.Winners {
		record.Winners = append(record.Winners, WinnerRecord{Name: w.Name, Amount: w.Amount})
		record.TotalPaid = record.TotalPaid.Add(w.Amount)
	}

	h.mu.Lock()
	h.records = append(h.records, record)
	if over := len(h.records) - h.limit; over > 0 {
		h.records = h.records[over:]
	}
	h.mu.Unlock()

	select {
	case h.dirty <- struct{}{}:
	default:
	}
}

// Records returns the retained rounds, oldest first.
func (h *RoundHistory) Records() []RoundRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]RoundRecord(nil), h.records...)
}

// Flush writes the history file. It is a no-op without a path.
func (h *RoundHistory) Flush() error {
	if h.path == "" {
		return nil
	}
	records := h.Records()
	if records == nil {
		records = []RoundRecord{}
	}
	return fileutil.WriteJSONAtomic(h.path, records, 0o644)
}

// Run flushes after each completed round until ctx is cancelled, then
// flushes once more.
func (h *RoundHistory) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if err := h.Flush(); err != nil {
				h.logger.Error("Failed to write round history", "path", h.path, "error", err)
			}
			return
		case <-h.dirty:
			if err := h.Flush(); err != nil {
				h.logger.Error("Failed to write round history", "path", h.path, "error", err)
			}
		}
	}
}

func (h *RoundHistory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	records := h.Records()
	if records == nil {
		records = []RoundRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		h.logger.Error("Failed to encode round history", "error", err)
	}
}

var _ game.RoundMonitor = (*RoundHistory)(nil)
