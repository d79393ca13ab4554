package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/bingo"
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/engine"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client. Each
// connection is one player; a player ID is minted on hello.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	name      string
	roomID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	engine    *engine.Engine
	server    *Server
}

// NewConnection creates a connection wrapper.
func NewConnection(conn *websocket.Conn, logger *log.Logger, eng *engine.Engine, srv *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		engine: eng,
		server: srv,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown.
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// PlayerID returns the ID minted for this connection's player.
func (c *Connection) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// RoomID returns the room this connection has joined, if any.
func (c *Connection) RoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

func (c *Connection) setIdentity(playerID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.name = name
}

func (c *Connection) setRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage dispatches one client message.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type, "player", c.PlayerID())

	switch msg.Type {
	case MessageTypeHello:
		var data HelloData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse hello data")
			return
		}
		c.handleHello(data)

	case MessageTypeListRooms:
		c.handleListRooms()

	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse join data")
			return
		}
		c.handleJoin(data)

	case MessageTypeLeave:
		var data LeaveData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse leave data")
			return
		}
		c.handleLeave(data)

	case MessageTypeSelectCard:
		var data SelectCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse select card data")
			return
		}
		c.handleSelectCard(data)

	case MessageTypeSetReady:
		var data SetReadyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse ready data")
			return
		}
		c.handleSetReady(data)

	case MessageTypeChat:
		var data ChatData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse chat data")
			return
		}
		c.handleChat(data)

	case MessageTypeClaim:
		var data ClaimData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse claim data")
			return
		}
		c.handleClaim(data)

	default:
		c.sendError("unknown_message_type", "unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}

func (c *Connection) requirePlayer() (string, bool) {
	id := c.PlayerID()
	if id == "" {
		c.sendError("not_identified", "send hello first")
		return "", false
	}
	return id, true
}

func (c *Connection) handleHello(data HelloData) {
	if data.Name == "" {
		c.sendError("invalid_hello", "player name required")
		return
	}
	playerID := uuid.NewString()
	c.setIdentity(playerID, data.Name)
	c.logger.Info("player identified", "player", playerID, "name", data.Name)

	response, _ := NewMessage(MessageTypeWelcome, WelcomeData{PlayerID: playerID, Name: data.Name})
	_ = c.SendMessage(response)
}

func (c *Connection) handleListRooms() {
	response, _ := NewMessage(MessageTypeRooms, RoomsData{Rooms: c.engine.ListRooms()})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoin(data JoinData) {
	playerID, ok := c.requirePlayer()
	if !ok {
		return
	}

	c.mu.RLock()
	name := c.name
	c.mu.RUnlock()

	if !c.engine.Join(data.RoomID, engine.Player{ID: playerID, Name: name}) {
		c.sendError("join_failed", "room unknown or full: "+data.RoomID)
		return
	}
	c.setRoom(data.RoomID)

	snap, _ := c.engine.GetRoom(data.RoomID)
	response, _ := NewMessage(MessageTypeRoom, RoomData{Room: snap})
	_ = c.SendMessage(response)
}

func (c *Connection) handleLeave(data LeaveData) {
	playerID, ok := c.requirePlayer()
	if !ok {
		return
	}
	c.engine.Leave(data.RoomID, playerID)
	c.setRoom("")
}

func (c *Connection) handleSelectCard(data SelectCardData) {
	playerID, ok := c.requirePlayer()
	if !ok {
		return
	}
	if data.CardID < bingo.MinCardID || data.CardID > bingo.MaxCardID {
		c.sendError("invalid_card", "card id must be 1..100")
		return
	}
	if !c.engine.SelectCard(data.RoomID, playerID, data.CardID) {
		c.sendError("select_failed", "not in room "+data.RoomID)
		return
	}
	snap, _ := c.engine.GetRoom(data.RoomID)
	response, _ := NewMessage(MessageTypeRoom, RoomData{Room: snap})
	_ = c.SendMessage(response)
}

func (c *Connection) handleSetReady(data SetReadyData) {
	playerID, ok := c.requirePlayer()
	if !ok {
		return
	}
	c.engine.SetReady(data.RoomID, playerID, data.Ready)
}

func (c *Connection) handleChat(data ChatData) {
	playerID, ok := c.requirePlayer()
	if !ok {
		return
	}
	c.engine.SendChat(data.RoomID, playerID, data.Text)
}

func (c *Connection) handleClaim(data ClaimData) {
	playerID, ok := c.requirePlayer()
	if !ok {
		return
	}
	result := c.engine.ClaimBingo(data.RoomID, playerID)
	response, _ := NewMessage(MessageTypeClaimResult, result)
	_ = c.SendMessage(response)
}
