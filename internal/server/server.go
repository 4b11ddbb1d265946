package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/guessthenumber/internal/game"
)

// Server exposes the table over WebSocket.
type Server struct {
	logger     *log.Logger
	table      *game.Table
	upgrader   websocket.Upgrader
	sendBuffer int
	history    *RoundHistory
	startedAt  time.Time

	mu          sync.RWMutex
	connections map[*Connection]struct{}
	httpServer  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithSendBuffer sets how many outbound messages may queue per connection.
func WithSendBuffer(n int) Option {
	return func(s *Server) { s.sendBuffer = n }
}

// WithHistory serves h at /rounds. h should also be registered as a monitor
// on the table.
func WithHistory(h *RoundHistory) Option {
	return func(s *Server) { s.history = h }
}

// NewServer creates a server in front of table.
func NewServer(logger *log.Logger, table *game.Table, opts ...Option) *Server {
	s := &Server{
		logger: logger.WithPrefix("server"),
		table:  table,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Participants are unauthenticated; any origin may play.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sendBuffer:  defaultSendBuffer,
		startedAt:   time.Now(),
		connections: make(map[*Connection]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes served by the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	if s.history != nil {
		mux.Handle("/rounds", s.history)
	}
	return mux
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", addr)
	return srv.ListenAndServe()
}

// Shutdown stops the round timer, closes every connection and then the
// HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.table.Close()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// ConnectionCount returns the number of open WebSocket connections.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// handleWebSocket upgrades the request and runs the connection until the
// peer disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger, s.sendBuffer)
	s.register(conn)
	defer s.unregister(conn)

	go conn.writePump()
	s.table.Join(conn)
	conn.readPump(s.table)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "conn", conn.ID(), "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "conn", conn.ID(), "total", total)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.table.Stats()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "Uptime: %s\n", time.Since(s.startedAt).Round(time.Second))
	_, _ = fmt.Fprintf(w, "Table state: %s\n", stats.State)
	_, _ = fmt.Fprintf(w, "Connected participants: %d\n", stats.Participants)
	_, _ = fmt.Fprintf(w, "Pending bets: %d\n", stats.PendingBets)
	_, _ = fmt.Fprintf(w, "Rounds resolved: %d\n", stats.RoundsResolved)
	_, _ = fmt.Fprintf(w, "Bets accepted: %d\n", stats.BetsAccepted)
	_, _ = fmt.Fprintf(w, "Bets rejected: %d\n", stats.BetsRejected)
	_, _ = fmt.Fprintf(w, "Bets settled: %d\n", stats.BetsSettled)
	_, _ = fmt.Fprintf(w, "Winning bets: %d\n", stats.Winners)
	_, _ = fmt.Fprintf(w, "Total paid: %s\n", stats.TotalPaid.StringFixed(2))
	if stats.RoundsResolved > 0 {
		_, _ = fmt.Fprintf(w, "Last draw: %d\n", stats.LastDraw)
	}
}
