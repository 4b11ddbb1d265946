package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/guessthenumber/internal/protocol"
)

var ErrNotConnected = errors.New("not connected")

// Client is a WebSocket connection to the game server.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	logger    *log.Logger
	messages  chan string

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to serverURL. http(s) URLs are rewritten to ws(s) and a
// missing path defaults to /ws.
func Dial(ctx context.Context, serverURL string, logger *log.Logger) (*Client, error) {
	u, err := NormalizeURL(serverURL)
	if err != nil {
		return nil, err
	}

	logger = logger.WithPrefix("client")
	logger.Info("Connecting to server", "url", u)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := &Client{
		serverURL: u,
		conn:      conn,
		logger:    logger,
		messages:  make(chan string, 64),
		done:      make(chan struct{}),
	}
	go c.readMessages()
	return c, nil
}

// NormalizeURL turns a server address into the WebSocket endpoint URL.
func NormalizeURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme", serverURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// PlaceBet sends a bet for the current round.
func (c *Client) PlaceBet(name string, number, amount int) error {
	payload, err := protocol.Marshal(protocol.NewBetRequest(name, number, amount))
	if err != nil {
		return err
	}
	return c.SendRaw(payload)
}

// SendRaw sends payload as a text frame without any validation.
func (c *Client) SendRaw(payload []byte) error {
	select {
	case <-c.done:
		return ErrNotConnected
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Messages delivers every text the server sends. It is closed when the
// connection ends.
func (c *Client) Messages() <-chan string {
	return c.messages
}

// Next waits for the next server message.
func (c *Client) Next(ctx context.Context) (string, error) {
	select {
	case msg, ok := <-c.messages:
		if !ok {
			return "", ErrNotConnected
		}
		return msg, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close sends a close frame and shuts the connection down.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readMessages() {
	defer close(c.messages)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Error("WebSocket read error", "error", err)
			}
			return
		}

		text := string(data)
		c.logger.Debug("Received message", "text", text)
		select {
		case c.messages <- text:
		case <-c.done:
			return
		}
	}
}
