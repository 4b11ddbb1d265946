package game

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

var errConnGone = errors.New("connection gone")

// fakeConn records every message sent to it.
type fakeConn struct {
	id string

	mu       sync.Mutex
	messages []string
	failing  bool
	panics   bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.panics {
		panic(fmt.Sprintf("send on closed channel (%s)", c.id))
	}
	if c.failing {
		return errConnGone
	}
	c.messages = append(c.messages, text)
	return nil
}

func (c *fakeConn) fail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing = true
}

// Messages returns a copy of everything received so far.
func (c *fakeConn) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

// Drain returns and forgets everything received so far.
func (c *fakeConn) Drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.messages
	c.messages = nil
	return out
}

func betPayload(name string, number, amount int) []byte {
	return []byte(fmt.Sprintf(`{"name":%q,"number":%d,"betAmount":%d}`, name, number, amount))
}
