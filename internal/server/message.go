package server

import (
	"encoding/json"
	"time"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/engine"
)

// MessageType identifies a WebSocket message.
type MessageType string

// Client -> server message types.
const (
	MessageTypeHello      MessageType = "hello"
	MessageTypeListRooms  MessageType = "listRooms"
	MessageTypeJoin       MessageType = "join"
	MessageTypeLeave      MessageType = "leave"
	MessageTypeSelectCard MessageType = "selectCard"
	MessageTypeSetReady   MessageType = "setReady"
	MessageTypeChat       MessageType = "chat"
	MessageTypeClaim      MessageType = "claim"
)

// Server -> client message types. Engine events are pushed with their
// event name as the message type and the event payload as data.
const (
	MessageTypeWelcome     MessageType = "welcome"
	MessageTypeRooms       MessageType = "rooms"
	MessageTypeRoom        MessageType = "room"
	MessageTypeClaimResult MessageType = "claimResult"
	MessageTypeError       MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the WebSocket envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client -> Server payloads

type HelloData struct {
	Name string `json:"name"`
}

type JoinData struct {
	RoomID string `json:"roomId"`
}

type LeaveData struct {
	RoomID string `json:"roomId"`
}

type SelectCardData struct {
	RoomID string `json:"roomId"`
	CardID int    `json:"cardId"`
}

type SetReadyData struct {
	RoomID string `json:"roomId"`
	Ready  bool   `json:"ready"`
}

type ChatData struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

type ClaimData struct {
	RoomID string `json:"roomId"`
}

// Server -> Client payloads

type WelcomeData struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type RoomsData struct {
	Rooms []engine.RoomSnapshot `json:"rooms"`
}

type RoomData struct {
	Room engine.RoomSnapshot `json:"room"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
