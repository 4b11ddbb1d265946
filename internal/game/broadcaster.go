package game

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Broadcaster delivers text to connections. A failed send is logged and
// never stops delivery to the remaining connections.
type Broadcaster struct {
	logger *log.Logger
}

// NewBroadcaster creates a broadcaster that logs failures to logger.
func NewBroadcaster(logger *log.Logger) *Broadcaster {
	return &Broadcaster{logger: logger.WithPrefix("broadcast")}
}

// SendTo sends text to conn and reports whether it was handed off.
func (b *Broadcaster) SendTo(conn Conn, text string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Send panicked", "conn", conn.ID(), "error", fmt.Sprint(r))
			ok = false
		}
	}()

	if err := conn.Send(text); err != nil {
		b.logger.Error("Failed to send message", "conn", conn.ID(), "error", err)
		return false
	}
	return true
}

// SendToAll sends text to every connection and returns how many succeeded.
func (b *Broadcaster) SendToAll(conns []Conn, text string) int {
	delivered := 0
	for _, conn := range conns {
		if b.SendTo(conn, text) {
			delivered++
		}
	}
	b.logger.Debug("Broadcasted message", "recipients", delivered, "total", len(conns))
	return delivered
}
