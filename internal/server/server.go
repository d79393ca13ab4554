// Package server exposes the bingo engine over WebSockets: client
// commands arrive as JSON messages and engine events are pushed back to
// the connections watching the affected room.
package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/engine"
)

// Server owns the WebSocket listener and the connection registry.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	engine      *engine.Engine
	httpServer  *http.Server
}

// NewServer creates a server bridging the engine's command and event
// surfaces onto WebSocket connections.
func NewServer(addr string, eng *engine.Engine, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Browser clients are served from elsewhere during
				// development; tighten before exposing publicly.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		engine:      eng,
	}
}

// Start subscribes to engine events and serves until Stop. It blocks.
func (s *Server) Start() error {
	go s.run()
	unsubscribe := s.engine.Bus().SubscribeAll(s.forwardEvent)
	defer unsubscribe()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	s.logger.Info("starting websocket server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the listener down and closes every connection.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

// run handles connection lifecycle.
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()

			if ok {
				// A vanished client leaves its room like any other player.
				if playerID, roomID := conn.PlayerID(), conn.RoomID(); playerID != "" && roomID != "" {
					s.logger.Info("cleaning up disconnected player", "player", playerID, "room", roomID)
					s.engine.Leave(roomID, playerID)
				}
				_ = conn.Close()
			}
			s.logger.Info("client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// forwardEvent pushes an engine event to interested connections. Room
// list changes go to everyone so lobby views stay current; in-room
// events go to the room's connections only.
func (s *Server) forwardEvent(ev engine.Event) {
	msg, err := NewMessage(MessageType(ev.Type().String()), ev)
	if err != nil {
		s.logger.Error("failed to encode event", "type", ev.Type(), "error", err)
		return
	}

	s.mu.RLock()
	targets := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		if ev.Type() == engine.EventRoomUpdated || conn.RoomID() == ev.Room() {
			targets = append(targets, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range targets {
		_ = conn.SendMessage(msg)
	}
}

// handleWebSocket upgrades a request and starts the connection pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.engine, s)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
