// Package engine implements the bingo room engine: the room lifecycle
// state machine, the per-second tick, the timed number draws and the
// win-claim resolution, publishing every state change on an in-process
// event bus.
//
// All room state is owned by a single Engine and guarded by one mutex;
// commands and timer callbacks mutate state atomically with respect to
// each other. Events are published after the mutex is released, in the
// order their causing transitions occurred, so a subscriber may call back
// into the engine from its handler.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/bingo"
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/rng"
)

// Lifecycle timings and thresholds.
const (
	// tickInterval drives countdowns and lifecycle transitions.
	tickInterval = time.Second
	// startingThreshold is the countdown value at or below which a room
	// with enough players shows as starting.
	startingThreshold = 10
	// countdownFallback is the countdown a room falls back to when it hits
	// zero without enough players.
	countdownFallback = 30
	// firstDrawDelay is the pause between game start and the first draw.
	firstDrawDelay = 1500 * time.Millisecond
	// drawInterval is the pause between consecutive draws.
	drawInterval = 3 * time.Second
	// resetDelay is the pause between game end and the room reset.
	resetDelay = 5 * time.Second
	// takeRate is the house cut excluded from the prize pool estimate.
	takeRate = 0.10
	// deckSize is the count of drawable numbers, 1..deckSize.
	deckSize = 75
)

// ClaimReason explains a rejected bingo claim.
type ClaimReason string

const (
	// ClaimNotPlaying means the room has no game in progress.
	ClaimNotPlaying ClaimReason = "not_playing"
	// ClaimNoCard means the claiming player has not selected a card.
	ClaimNoCard ClaimReason = "no_card"
	// ClaimInvalid means the player's card holds no completed line.
	ClaimInvalid ClaimReason = "invalid"
)

// ClaimResult is the outcome of a ClaimBingo command. Rejections are
// expected and recoverable, so they are results rather than errors.
type ClaimResult struct {
	OK      bool          `json:"ok"`
	Pattern bingo.Pattern `json:"pattern,omitempty"`
	Reason  ClaimReason   `json:"reason,omitempty"`
}

// Engine coordinates all rooms. Construct with New and drive it with Run;
// there is no package-level instance.
type Engine struct {
	mu     sync.Mutex
	rooms  map[string]*room
	order  []string
	bus    *Bus
	clock  quartz.Clock
	logger *log.Logger

	// deckSeed produces the seed for each game's deck shuffle. The
	// default derives from the wall clock: game decks are the one place
	// unpredictability is wanted. Tests override it.
	deckSeed func() uint32
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the clock used for ticks, draws and resets.
// Tests pass a quartz mock to advance logical time deterministically.
func WithClock(c quartz.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithDeckSeed fixes the seed source for game deck shuffles, making draw
// order reproducible.
func WithDeckSeed(fn func() uint32) Option {
	return func(e *Engine) { e.deckSeed = fn }
}

// New builds an engine hosting one room per catalog entry. Defaults are
// applied to each tier; invalid tiers are a configuration error surfaced
// by RoomConfig.Validate before construction.
func New(catalog []RoomConfig, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		rooms:  make(map[string]*room, len(catalog)),
		bus:    NewBus(),
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("engine"),
	}
	e.deckSeed = func() uint32 {
		return uint32(e.clock.Now().UnixMilli() % 100000)
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, cfg := range catalog {
		cfg.ApplyDefaults()
		e.rooms[cfg.ID] = newRoom(cfg)
		e.order = append(e.order, cfg.ID)
	}
	return e
}

// Bus returns the engine's event bus for subscription.
func (e *Engine) Bus() *Bus {
	return e.bus
}

// Run drives the per-second tick until the context is cancelled. Pending
// draw and reset timers are stopped on the way out.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine running", "rooms", len(e.order))
	waiter := e.clock.TickerFunc(ctx, tickInterval, func() error {
		e.tick()
		return nil
	}, "tick")
	err := waiter.Wait()

	e.mu.Lock()
	for _, r := range e.rooms {
		if r.drawTimer != nil {
			r.drawTimer.Stop()
		}
		if r.resetTimer != nil {
			r.resetTimer.Stop()
		}
	}
	e.mu.Unlock()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// tick advances every pre-game countdown by one second.
func (e *Engine) tick() {
	e.mu.Lock()
	var events []Event
	for _, id := range e.order {
		r := e.rooms[id]
		if r.status != StatusWaiting && r.status != StatusStarting {
			continue
		}
		if r.countdown > 0 {
			r.countdown--
		}
		if r.countdown <= startingThreshold && len(r.players) >= r.cfg.MinPlayers {
			r.status = StatusStarting
		}
		if r.countdown == 0 {
			if len(r.players) >= r.cfg.MinPlayers {
				events = append(events, e.startGameLocked(r)...)
			} else {
				r.countdown = countdownFallback
			}
		}
		events = append(events, e.roomUpdatedLocked(r))
	}
	e.mu.Unlock()
	e.publish(events)
}

// startGameLocked moves a room into playing with a freshly shuffled deck.
// Caller holds the mutex.
func (e *Engine) startGameLocked(r *room) []Event {
	if r.status == StatusPlaying {
		return nil
	}
	r.status = StatusPlaying

	deck := make([]int, deckSize)
	for i := range deck {
		deck[i] = i + 1
	}
	r.game = &game{
		deck:      rng.New(e.deckSeed()).Shuffle(deck),
		startedAt: e.clock.Now(),
	}

	roomID := r.cfg.ID
	r.drawTimer = e.clock.AfterFunc(firstDrawDelay, func() {
		e.drawNext(roomID)
	}, "draw")

	e.logger.Info("game started", "room", roomID, "players", len(r.players))
	return []Event{GameStartedEvent{RoomID: roomID, Time: e.clock.Now()}}
}

// drawNext reveals the next number and reschedules itself. The status
// guard is the draw loop's cancellation point: once a room leaves playing
// (claimed win, shutdown reset) the pending callback becomes a no-op.
func (e *Engine) drawNext(roomID string) {
	e.mu.Lock()
	r, ok := e.rooms[roomID]
	if !ok || r.status != StatusPlaying || r.game == nil {
		e.mu.Unlock()
		return
	}

	var events []Event
	if len(r.game.deck) == 0 {
		// Deck exhausted: the game ends with no winner.
		events = e.endGameLocked(r)
	} else {
		n := r.game.deck[0]
		r.game.deck = r.game.deck[1:]
		r.game.drawn = append(r.game.drawn, n)
		events = append(events, NumberDrawnEvent{
			RoomID: roomID,
			Number: n,
			Drawn:  append([]int(nil), r.game.drawn...),
			Time:   e.clock.Now(),
		})
		r.drawTimer = e.clock.AfterFunc(drawInterval, func() {
			e.drawNext(roomID)
		}, "draw")
	}
	e.mu.Unlock()
	e.publish(events)
}

// endGameLocked moves a playing room to ended and schedules the reset.
// Caller holds the mutex.
func (e *Engine) endGameLocked(r *room) []Event {
	if r.game == nil {
		return nil
	}
	r.status = StatusEnded
	r.game.endedAt = e.clock.Now()

	roomID := r.cfg.ID
	r.resetTimer = e.clock.AfterFunc(resetDelay, func() {
		e.resetRoom(roomID)
	}, "reset")

	e.logger.Info("game ended", "room", roomID,
		"winner", r.game.winnerID, "pattern", r.game.pattern,
		"drawn", len(r.game.drawn))
	return []Event{
		GameEndedEvent{
			RoomID:   roomID,
			WinnerID: r.game.winnerID,
			Pattern:  r.game.pattern,
			Time:     e.clock.Now(),
		},
		e.roomUpdatedLocked(r),
	}
}

// resetRoom returns an ended room to waiting for the next round. Card
// selection and readiness are per-round for humans; bots keep theirs.
func (e *Engine) resetRoom(roomID string) {
	e.mu.Lock()
	r, ok := e.rooms[roomID]
	if !ok || r.status != StatusEnded {
		e.mu.Unlock()
		return
	}
	r.status = StatusWaiting
	r.countdown = r.cfg.Countdown
	r.game = nil
	for _, p := range r.players {
		if !p.Bot {
			p.Ready = false
			p.CardID = 0
		}
	}
	events := []Event{e.roomUpdatedLocked(r)}
	e.mu.Unlock()
	e.publish(events)
}

// ListRooms returns snapshots of every room in catalog order.
func (e *Engine) ListRooms() []RoomSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snaps := make([]RoomSnapshot, 0, len(e.order))
	for _, id := range e.order {
		snaps = append(snaps, e.rooms[id].snapshot())
	}
	return snaps
}

// GetRoom returns a snapshot of one room.
func (e *Engine) GetRoom(roomID string) (RoomSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.rooms[roomID]
	if !ok {
		return RoomSnapshot{}, false
	}
	return r.snapshot(), true
}

// Join adds a player to a room with readiness cleared. Joining twice is a
// harmless no-op that still reports success. Unknown rooms and full rooms
// report failure without error: they are UI races, not faults.
func (e *Engine) Join(roomID string, p Player) bool {
	e.mu.Lock()
	r, ok := e.rooms[roomID]
	if !ok {
		e.mu.Unlock()
		return false
	}
	if r.findPlayer(p.ID) != nil {
		e.mu.Unlock()
		return true
	}
	if len(r.players) >= r.cfg.MaxPlayers {
		e.mu.Unlock()
		return false
	}
	p.Ready = false
	r.players = append(r.players, &p)
	r.recalcPrizePool()
	events := []Event{
		PlayerJoinedEvent{RoomID: roomID, Player: p, Time: e.clock.Now()},
		e.roomUpdatedLocked(r),
	}
	e.mu.Unlock()

	e.logger.Debug("player joined", "room", roomID, "player", p.ID)
	e.publish(events)
	return true
}

// Leave removes a player from a room. Unknown rooms and absent players
// are no-ops.
func (e *Engine) Leave(roomID, playerID string) {
	e.mu.Lock()
	r, ok := e.rooms[roomID]
	if !ok {
		e.mu.Unlock()
		return
	}
	found := false
	for i, p := range r.players {
		if p.ID == playerID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		e.mu.Unlock()
		return
	}
	r.recalcPrizePool()
	events := []Event{
		PlayerLeftEvent{RoomID: roomID, PlayerID: playerID, Time: e.clock.Now()},
		e.roomUpdatedLocked(r),
	}
	e.mu.Unlock()

	e.logger.Debug("player left", "room", roomID, "player", playerID)
	e.publish(events)
}

// SelectCard records the player's chosen card identifier. Card IDs are
// deliberately not unique across players: a card is a pure function of
// its ID, so two players may hold the same card, and the first valid
// claim wins.
func (e *Engine) SelectCard(roomID, playerID string, cardID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.rooms[roomID]
	if !ok {
		return false
	}
	p := r.findPlayer(playerID)
	if p == nil {
		return false
	}
	p.CardID = cardID
	return true
}

// SetReady updates the player's advisory ready flag. Readiness is shown
// to other players but never gates the automatic start; only the head
// count does.
func (e *Engine) SetReady(roomID, playerID string, ready bool) {
	e.mu.Lock()
	r, ok := e.rooms[roomID]
	if !ok {
		e.mu.Unlock()
		return
	}
	p := r.findPlayer(playerID)
	if p == nil {
		e.mu.Unlock()
		return
	}
	p.Ready = ready
	events := []Event{e.roomUpdatedLocked(r)}
	e.mu.Unlock()
	e.publish(events)
}

// SendChat appends a message attributed to the sending player.
func (e *Engine) SendChat(roomID, playerID, text string) {
	e.mu.Lock()
	r, ok := e.rooms[roomID]
	if !ok {
		e.mu.Unlock()
		return
	}
	p := r.findPlayer(playerID)
	if p == nil {
		e.mu.Unlock()
		return
	}
	msg := ChatMessage{
		ID:   newMessageID(),
		From: p.Name,
		Text: text,
		Time: e.clock.Now(),
	}
	r.chat = append(r.chat, msg)
	events := []Event{ChatEvent{RoomID: roomID, Message: msg, Time: msg.Time}}
	e.mu.Unlock()
	e.publish(events)
}

// ClaimBingo checks the calling player's card against the room's drawn
// numbers. The player's card is recomputed from its identifier, never
// trusted from the client. A valid claim records the winner and ends the
// game immediately; a race between two holders of the same card is
// resolved by claim order, the loser seeing a not_playing rejection on
// the already-ended room.
func (e *Engine) ClaimBingo(roomID, playerID string) ClaimResult {
	e.mu.Lock()
	r, ok := e.rooms[roomID]
	if !ok || r.status != StatusPlaying || r.game == nil {
		e.mu.Unlock()
		return ClaimResult{Reason: ClaimNotPlaying}
	}
	p := r.findPlayer(playerID)
	if p == nil || p.CardID == 0 {
		e.mu.Unlock()
		return ClaimResult{Reason: ClaimNoCard}
	}

	cardID := p.CardID
	card := bingo.Generate(cardID)
	pattern, won := bingo.Evaluate(card, r.game.drawn)
	if !won {
		e.mu.Unlock()
		return ClaimResult{Reason: ClaimInvalid}
	}

	r.game.winnerID = p.ID
	r.game.pattern = pattern
	events := e.endGameLocked(r)
	e.mu.Unlock()

	e.logger.Info("bingo claimed", "room", roomID, "player", playerID,
		"card", cardID, "pattern", pattern)
	e.publish(events)
	return ClaimResult{OK: true, Pattern: pattern}
}

func (e *Engine) roomUpdatedLocked(r *room) Event {
	return RoomUpdatedEvent{RoomID: r.cfg.ID, Snapshot: r.snapshot(), Time: e.clock.Now()}
}

func (e *Engine) publish(events []Event) {
	for _, ev := range events {
		e.bus.Publish(ev)
	}
}
