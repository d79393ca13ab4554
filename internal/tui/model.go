// Package tui is a terminal presentation for the bingo engine. It issues
// engine commands from keypresses and re-renders from room snapshots
// whenever an engine event arrives, which is exactly the contract the
// engine's event surface is designed for.
package tui

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/bingo"
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/engine"
)

// EventMsg wraps an engine event for delivery into the Bubble Tea loop.
type EventMsg struct {
	Event engine.Event
}

type view int

const (
	viewLobby view = iota
	viewRoom
)

// Model is the Bubble Tea model for interactive play against an
// in-process engine.
type Model struct {
	eng        *engine.Engine
	playerID   string
	playerName string
	logger     *log.Logger

	view   view
	rooms  []engine.RoomSnapshot
	cursor int

	roomID string
	room   engine.RoomSnapshot

	chatInput textinput.Model
	chatting  bool
	chatLog   []string

	notice string

	width  int
	height int
}

// NewModel creates the play model. The player is registered with the
// engine on join, not before.
func NewModel(eng *engine.Engine, playerID, playerName string, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "say something"
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = "> "

	return &Model{
		eng:        eng,
		playerID:   playerID,
		playerName: playerName,
		logger:     logger.WithPrefix("tui"),
		rooms:      eng.ListRooms(),
		chatInput:  ti,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)

	case tea.KeyMsg:
		if m.chatting {
			return m.handleChatKey(msg)
		}
		switch m.view {
		case viewLobby:
			return m.handleLobbyKey(msg)
		case viewRoom:
			return m.handleRoomKey(msg)
		}
	}
	return m, nil
}

func (m *Model) handleEvent(ev engine.Event) (tea.Model, tea.Cmd) {
	// Snapshots are the source of truth; events tell us when to re-read.
	m.rooms = m.eng.ListRooms()
	if m.view == viewRoom && ev.Room() == m.roomID {
		if snap, ok := m.eng.GetRoom(m.roomID); ok {
			m.room = snap
		}
		switch ev := ev.(type) {
		case engine.ChatEvent:
			m.chatLog = append(m.chatLog, fmt.Sprintf("%s: %s", ev.Message.From, ev.Message.Text))
		case engine.NumberDrawnEvent:
			m.notice = fmt.Sprintf("number drawn: %d", ev.Number)
		case engine.GameStartedEvent:
			m.notice = "game on!"
		case engine.GameEndedEvent:
			if ev.WinnerID == m.playerID {
				m.notice = WinStyle.Render(fmt.Sprintf("BINGO! you won with %s", ev.Pattern))
			} else if ev.WinnerID != "" {
				m.notice = fmt.Sprintf("game over, winner: %s (%s)", m.playerNameFor(ev.WinnerID), ev.Pattern)
			} else {
				m.notice = "game over, nobody won"
			}
		}
	}
	return m, nil
}

func (m *Model) handleLobbyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rooms)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.rooms) {
			roomID := m.rooms[m.cursor].ID
			if m.eng.Join(roomID, engine.Player{ID: m.playerID, Name: m.playerName}) {
				m.roomID = roomID
				m.view = viewRoom
				m.chatLog = nil
				m.notice = ""
				if snap, ok := m.eng.GetRoom(roomID); ok {
					m.room = snap
				}
			} else {
				m.notice = ErrorStyle.Render("room is full")
			}
		}
	}
	return m, nil
}

func (m *Model) handleRoomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.eng.Leave(m.roomID, m.playerID)
		return m, tea.Quit
	case "esc":
		m.eng.Leave(m.roomID, m.playerID)
		m.view = viewLobby
		m.roomID = ""
		m.notice = ""
	case "c":
		cardID := bingo.MinCardID + rand.IntN(bingo.MaxCardID)
		if m.eng.SelectCard(m.roomID, m.playerID, cardID) {
			m.notice = fmt.Sprintf("picked card #%d", cardID)
			if snap, ok := m.eng.GetRoom(m.roomID); ok {
				m.room = snap
			}
		}
	case "r":
		if me := m.me(); me != nil {
			m.eng.SetReady(m.roomID, m.playerID, !me.Ready)
		}
	case "b":
		result := m.eng.ClaimBingo(m.roomID, m.playerID)
		if result.OK {
			m.notice = WinStyle.Render(fmt.Sprintf("BINGO! %s", result.Pattern))
		} else {
			m.notice = ErrorStyle.Render(fmt.Sprintf("claim rejected: %s", result.Reason))
		}
	case "t":
		m.chatting = true
		m.chatInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.chatting = false
		m.chatInput.Blur()
		m.chatInput.Reset()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.chatInput.Value())
		if text != "" {
			m.eng.SendChat(m.roomID, m.playerID, text)
		}
		m.chatting = false
		m.chatInput.Blur()
		m.chatInput.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m *Model) me() *engine.Player {
	for i := range m.room.Players {
		if m.room.Players[i].ID == m.playerID {
			return &m.room.Players[i]
		}
	}
	return nil
}

func (m *Model) playerNameFor(id string) string {
	for _, p := range m.room.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.view {
	case viewRoom:
		return m.roomView()
	default:
		return m.lobbyView()
	}
}

func (m *Model) lobbyView() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("bingo buzz — rooms"))
	b.WriteString("\n\n")

	for i, r := range m.rooms {
		line := fmt.Sprintf("%-8s  fee %2d  players %2d/%-2d  %-8s  %3ds  pool %.0f",
			r.ID, r.EntryFee, len(r.Players), r.MaxPlayers, r.Status, r.Countdown, r.PrizePool)
		if i == m.cursor {
			line = SelectedStyle.Render("▸ " + line)
		} else {
			line = PlayerStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("↑/↓ move · enter join · q quit"))
	return b.String()
}

func (m *Model) roomView() string {
	var b strings.Builder
	r := m.room

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("bingo buzz — %s (fee %d)", r.ID, r.EntryFee)))
	b.WriteString("\n")
	b.WriteString(StatusStyle.Render(fmt.Sprintf("status: %s", r.Status)))
	if r.Status == engine.StatusWaiting || r.Status == engine.StatusStarting {
		b.WriteString(CountdownStyle.Render(fmt.Sprintf("   starts in %ds", r.Countdown)))
	}
	b.WriteString(fmt.Sprintf("   pool %.0f\n\n", r.PrizePool))

	// Player's card, marked against the draw history.
	var drawn []int
	if r.Game != nil {
		drawn = r.Game.Drawn
	}
	me := m.me()
	left := "no card picked — press c"
	if me != nil && me.CardID != 0 {
		card := bingo.Generate(me.CardID)
		left = fmt.Sprintf("card #%d\n%s", me.CardID, RenderCard(card, drawn))
		if r.Game != nil {
			left += HelpStyle.Render(fmt.Sprintf("marked %d of 24", len(bingo.Marked(card, drawn))))
		}
	}

	var right strings.Builder
	right.WriteString("players\n")
	for _, p := range r.Players {
		mark := " "
		if p.Ready {
			mark = "✓"
		}
		line := fmt.Sprintf(" %s %s", mark, p.Name)
		if p.Bot {
			right.WriteString(BotStyle.Render(line))
		} else {
			right.WriteString(PlayerStyle.Render(line))
		}
		right.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(4).Render(left),
		right.String()))
	b.WriteString("\n")

	if r.Game != nil {
		b.WriteString(DrawnStyle.Render(fmt.Sprintf("drawn (%d): ", len(drawn))))
		b.WriteString(formatDrawn(drawn))
		b.WriteString("\n")
	}

	if len(m.chatLog) > 0 {
		b.WriteString("\n")
		start := len(m.chatLog) - 6
		if start < 0 {
			start = 0
		}
		for _, line := range m.chatLog[start:] {
			b.WriteString(HelpStyle.Render(line))
			b.WriteString("\n")
		}
	}
	if m.chatting {
		b.WriteString(m.chatInput.View())
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("c card · r ready · b bingo! · t chat · esc leave · q quit"))
	return b.String()
}

// formatDrawn shows the tail of the draw history, newest last.
func formatDrawn(drawn []int) string {
	const show = 12
	start := 0
	prefix := ""
	if len(drawn) > show {
		start = len(drawn) - show
		prefix = "… "
	}
	parts := make([]string, 0, show)
	for _, n := range drawn[start:] {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return prefix + strings.Join(parts, " ")
}
