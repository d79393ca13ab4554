package engine

import (
	"sync"
	"time"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/bingo"
)

// EventType identifies a room event with type safety.
type EventType string

// Event types published by the engine.
const (
	EventPlayerJoined EventType = "playerJoined"
	EventPlayerLeft   EventType = "playerLeft"
	EventRoomUpdated  EventType = "roomUpdated"
	EventGameStarted  EventType = "gameStarted"
	EventNumberDrawn  EventType = "numberDrawn"
	EventGameEnded    EventType = "gameEnded"
	EventChat         EventType = "chat"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

// Event is a state-change notification for a single room. Events are
// published synchronously, in the order their causing transitions occur.
type Event interface {
	Type() EventType
	Room() string
	Timestamp() time.Time
}

// PlayerJoinedEvent is published when a player is added to a room.
type PlayerJoinedEvent struct {
	RoomID string    `json:"roomId"`
	Player Player    `json:"player"`
	Time   time.Time `json:"time"`
}

func (e PlayerJoinedEvent) Type() EventType      { return EventPlayerJoined }
func (e PlayerJoinedEvent) Room() string         { return e.RoomID }
func (e PlayerJoinedEvent) Timestamp() time.Time { return e.Time }

// PlayerLeftEvent is published when a player is removed from a room.
type PlayerLeftEvent struct {
	RoomID   string    `json:"roomId"`
	PlayerID string    `json:"playerId"`
	Time     time.Time `json:"time"`
}

func (e PlayerLeftEvent) Type() EventType      { return EventPlayerLeft }
func (e PlayerLeftEvent) Room() string         { return e.RoomID }
func (e PlayerLeftEvent) Timestamp() time.Time { return e.Time }

// RoomUpdatedEvent carries a full room snapshot after any state change.
type RoomUpdatedEvent struct {
	RoomID   string       `json:"roomId"`
	Snapshot RoomSnapshot `json:"room"`
	Time     time.Time    `json:"time"`
}

func (e RoomUpdatedEvent) Type() EventType      { return EventRoomUpdated }
func (e RoomUpdatedEvent) Room() string         { return e.RoomID }
func (e RoomUpdatedEvent) Timestamp() time.Time { return e.Time }

// GameStartedEvent is published when a room transitions to playing.
type GameStartedEvent struct {
	RoomID string    `json:"roomId"`
	Time   time.Time `json:"time"`
}

func (e GameStartedEvent) Type() EventType      { return EventGameStarted }
func (e GameStartedEvent) Room() string         { return e.RoomID }
func (e GameStartedEvent) Timestamp() time.Time { return e.Time }

// NumberDrawnEvent carries the drawn number and the full draw history so
// far. A subscriber that claims bingo from its handler observes the
// just-appended number.
type NumberDrawnEvent struct {
	RoomID string    `json:"roomId"`
	Number int       `json:"number"`
	Drawn  []int     `json:"drawnNumbers"`
	Time   time.Time `json:"time"`
}

func (e NumberDrawnEvent) Type() EventType      { return EventNumberDrawn }
func (e NumberDrawnEvent) Room() string         { return e.RoomID }
func (e NumberDrawnEvent) Timestamp() time.Time { return e.Time }

// GameEndedEvent is published when a game finishes, by claim or by deck
// exhaustion. WinnerID and Pattern are empty when nobody won.
type GameEndedEvent struct {
	RoomID   string        `json:"roomId"`
	WinnerID string        `json:"winnerId,omitempty"`
	Pattern  bingo.Pattern `json:"pattern,omitempty"`
	Time     time.Time     `json:"time"`
}

func (e GameEndedEvent) Type() EventType      { return EventGameEnded }
func (e GameEndedEvent) Room() string         { return e.RoomID }
func (e GameEndedEvent) Timestamp() time.Time { return e.Time }

// ChatEvent is published when a chat message is appended to a room.
type ChatEvent struct {
	RoomID  string      `json:"roomId"`
	Message ChatMessage `json:"message"`
	Time    time.Time   `json:"time"`
}

func (e ChatEvent) Type() EventType      { return EventChat }
func (e ChatEvent) Room() string         { return e.RoomID }
func (e ChatEvent) Timestamp() time.Time { return e.Time }

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus is an in-process publish/subscribe register keyed by event type.
// Publish invokes subscribers synchronously in subscription order. Panics
// in handlers are not recovered.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[EventType][]subscription
	all    []subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventType][]subscription)}
}

// Subscribe registers a handler for one event type and returns a function
// that removes it.
func (b *Bus) Subscribe(t EventType, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs[t] = remove(b.subs[t], id)
	}
}

// SubscribeAll registers a handler for every event type. All-event
// handlers run after the type-specific handlers for each event.
func (b *Bus) SubscribeAll(fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = remove(b.all, id)
	}
}

// Publish delivers the event to current subscribers. The subscriber list
// is snapshotted first so handlers may subscribe or unsubscribe freely.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[e.Type()])+len(b.all))
	for _, s := range b.subs[e.Type()] {
		handlers = append(handlers, s.fn)
	}
	for _, s := range b.all {
		handlers = append(handlers, s.fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(e)
	}
}

func remove(subs []subscription, id int) []subscription {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}
