package engine

import (
	"encoding/json"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/bingo"
)

// Status represents a room's position in its lifecycle. Rooms cycle
// waiting -> starting -> playing -> ended -> waiting for the process
// lifetime; they are never destroyed.
type Status int

const (
	// StatusWaiting means the room is counting down to the next game.
	StatusWaiting Status = iota
	// StatusStarting means the countdown is nearly up and enough players
	// are present. Purely informational; no command is gated differently
	// from waiting.
	StatusStarting
	// StatusPlaying means a game is in progress and numbers are drawn.
	StatusPlaying
	// StatusEnded means the game finished and the room will reset shortly.
	StatusEnded
)

// String returns the string representation of a status.
func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusStarting:
		return "starting"
	case StatusPlaying:
		return "playing"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Player is a room participant. CardID is 0 until the player picks a card.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Bot    bool   `json:"bot,omitempty"`
	CardID int    `json:"cardId,omitempty"`
	Ready  bool   `json:"ready"`
}

// ChatMessage is one entry in a room's chat log.
type ChatMessage struct {
	ID   string    `json:"id"`
	From string    `json:"from"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

func newMessageID() string {
	return uuid.NewString()
}

// game holds the per-round state attached to a room while playing. The
// deck is engine-private; snapshots expose only the remaining count so a
// client cannot peek at upcoming numbers.
type game struct {
	deck      []int
	drawn     []int
	startedAt time.Time
	endedAt   time.Time
	winnerID  string
	pattern   bingo.Pattern
}

// room is the engine-owned mutable state for one fee tier. All access is
// guarded by the engine mutex.
type room struct {
	cfg       RoomConfig
	status    Status
	countdown int
	players   []*Player
	prizePool float64
	game      *game
	chat      []ChatMessage

	// Pending timers, stopped on engine close. The draw loop is
	// otherwise self-cancelling via the status guard in drawNext.
	drawTimer  *quartz.Timer
	resetTimer *quartz.Timer
}

func newRoom(cfg RoomConfig) *room {
	return &room{
		cfg:       cfg,
		status:    StatusWaiting,
		countdown: cfg.Countdown,
	}
}

func (r *room) findPlayer(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// recalcPrizePool derives the advertised prize pool from the current head
// count, entry fee and house take rate.
func (r *room) recalcPrizePool() {
	r.prizePool = float64(len(r.players)) * float64(r.cfg.EntryFee) * (1 - takeRate)
}

// GameSnapshot is the public view of an active or just-finished game.
type GameSnapshot struct {
	DeckRemaining int           `json:"deckRemaining"`
	Drawn         []int         `json:"drawnNumbers"`
	StartedAt     time.Time     `json:"startedAt"`
	EndedAt       time.Time     `json:"endedAt"`
	WinnerID      string        `json:"winnerId,omitempty"`
	Pattern       bingo.Pattern `json:"pattern,omitempty"`
}

// RoomSnapshot is an immutable copy of room state handed to callers and
// carried on RoomUpdatedEvent. Mutating a snapshot has no effect on the
// engine.
type RoomSnapshot struct {
	ID         string        `json:"id"`
	EntryFee   int           `json:"entryFee"`
	MinPlayers int           `json:"minPlayers"`
	MaxPlayers int           `json:"maxPlayers"`
	Countdown  int           `json:"countdown"`
	Status     Status        `json:"status"`
	Players    []Player      `json:"players"`
	PrizePool  float64       `json:"prizePoolEstimate"`
	Game       *GameSnapshot `json:"game,omitempty"`
	Chat       []ChatMessage `json:"chat"`
}

func (r *room) snapshot() RoomSnapshot {
	snap := RoomSnapshot{
		ID:         r.cfg.ID,
		EntryFee:   r.cfg.EntryFee,
		MinPlayers: r.cfg.MinPlayers,
		MaxPlayers: r.cfg.MaxPlayers,
		Countdown:  r.countdown,
		Status:     r.status,
		PrizePool:  r.prizePool,
		Players:    make([]Player, len(r.players)),
		Chat:       append([]ChatMessage(nil), r.chat...),
	}
	for i, p := range r.players {
		snap.Players[i] = *p
	}
	if r.game != nil {
		snap.Game = &GameSnapshot{
			DeckRemaining: len(r.game.deck),
			Drawn:         append([]int(nil), r.game.drawn...),
			StartedAt:     r.game.startedAt,
			EndedAt:       r.game.endedAt,
			WinnerID:      r.game.winnerID,
			Pattern:       r.game.pattern,
		}
	}
	return snap
}
