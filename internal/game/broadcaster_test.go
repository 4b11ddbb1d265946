package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcasterIsolatesFailures(t *testing.T) {
	b := NewBroadcaster(testLogger())
	ok1, broken, ok2 := newFakeConn("ok1"), newFakeConn("broken"), newFakeConn("ok2")
	broken.fail()

	delivered := b.SendToAll([]Conn{ok1, broken, ok2}, "hello")

	assert.Equal(t, 2, delivered)
	assert.Equal(t, []string{"hello"}, ok1.Messages())
	assert.Equal(t, []string{"hello"}, ok2.Messages())
	assert.Empty(t, broken.Messages())
}

func TestBroadcasterRecoversFromPanickingConn(t *testing.T) {
	b := NewBroadcaster(testLogger())
	closing, ok := newFakeConn("closing"), newFakeConn("ok")
	closing.panics = true

	assert.NotPanics(t, func() {
		assert.Equal(t, 1, b.SendToAll([]Conn{closing, ok}, "result"))
	})
	assert.False(t, b.SendTo(closing, "again"))
	assert.Equal(t, []string{"result"}, ok.Messages())
}
