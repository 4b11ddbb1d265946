package server

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/guessthenumber/internal/client"
	"github.com/lox/guessthenumber/internal/game"
)

const testRoundDelay = 5 * time.Second

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

type testServer struct {
	*Server
	table *game.Table
	clock *quartz.Mock
	http  *httptest.Server
	url   string
}

func startTestServer(t *testing.T, draw int, opts ...Option) *testServer {
	t.Helper()
	return startTestServerWithTable(t, draw, nil, opts...)
}

func startTestServerWithTable(t *testing.T, draw int, tableOpts []game.Option, opts ...Option) *testServer {
	t.Helper()

	clock := quartz.NewMock(t)
	tableOpts = append([]game.Option{game.WithClock(clock), game.WithDrawer(game.FixedDraw(draw))}, tableOpts...)
	table := game.NewTable(testLogger(), testRoundDelay, tableOpts...)
	srv := NewServer(testLogger(), table, opts...)
	httpServer := httptest.NewServer(srv.Handler())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		httpServer.Close()
	})

	return &testServer{
		Server: srv,
		table:  table,
		clock:  clock,
		http:   httpServer,
		url:    "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws",
	}
}

// finishRound fires the pending round timer.
func (ts *testServer) finishRound(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ts.clock.Advance(testRoundDelay).MustWait(ctx)
}

func (ts *testServer) dial(t *testing.T) *client.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := client.Dial(ctx, ts.url, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// expect reads the next message and requires it to equal want.
func expect(t *testing.T, c *client.Client, want string) {
	t.Helper()
	require.Equal(t, want, next(t, c))
}

func next(t *testing.T, c *client.Client) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg, err := c.Next(ctx)
	require.NoError(t, err)
	return msg
}

type testClient struct {
	c     *client.Client
	stake int
}
