package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/engine"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newTestServer wires a server to a fresh engine without running the
// engine's tick loop; commands and event fan-out work on a quiet clock.
func newTestServer(t *testing.T) (*Server, *engine.Engine, *httptest.Server) {
	t.Helper()
	eng := engine.New(engine.DefaultRooms(), testLogger())
	srv := NewServer("127.0.0.1:0", eng, testLogger())
	go srv.run()
	unsubscribe := eng.Bus().SubscribeAll(srv.forwardEvent)

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWebSocket))
	t.Cleanup(func() {
		unsubscribe()
		_ = srv.Stop()
		ts.Close()
	})
	return srv, eng, ts
}

func dialWebSocket(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendClientMessage(t *testing.T, conn *websocket.Conn, mt MessageType, data interface{}) {
	t.Helper()
	msg, err := NewMessage(mt, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

// waitForMessage reads until a message of the wanted type arrives,
// skipping interleaved event pushes.
func waitForMessage(t *testing.T, conn *websocket.Conn, mt MessageType) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for i := 0; i < 50; i++ {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == mt {
			return &msg
		}
	}
	t.Fatalf("no %s message received", mt)
	return nil
}

func decodeData(t *testing.T, msg *Message, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(msg.Data, out))
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	eng := engine.New(engine.DefaultRooms(), testLogger())
	srv := NewServer("127.0.0.1:0", eng, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebSocketSession(t *testing.T) {
	t.Parallel()
	_, _, ts := newTestServer(t)
	conn := dialWebSocket(t, ts)

	// Commands before hello are rejected.
	sendClientMessage(t, conn, MessageTypeJoin, JoinData{RoomID: "room-20"})
	errMsg := waitForMessage(t, conn, MessageTypeError)
	var errData ErrorData
	decodeData(t, errMsg, &errData)
	assert.Equal(t, "not_identified", errData.Code)

	// An empty name is rejected.
	sendClientMessage(t, conn, MessageTypeHello, HelloData{})
	errMsg = waitForMessage(t, conn, MessageTypeError)
	decodeData(t, errMsg, &errData)
	assert.Equal(t, "invalid_hello", errData.Code)

	// Hello mints a player identity.
	sendClientMessage(t, conn, MessageTypeHello, HelloData{Name: "Alice"})
	welcome := waitForMessage(t, conn, MessageTypeWelcome)
	var welcomeData WelcomeData
	decodeData(t, welcome, &welcomeData)
	require.NotEmpty(t, welcomeData.PlayerID)
	assert.Equal(t, "Alice", welcomeData.Name)

	// The lobby lists the full catalog.
	sendClientMessage(t, conn, MessageTypeListRooms, nil)
	rooms := waitForMessage(t, conn, MessageTypeRooms)
	var roomsData RoomsData
	decodeData(t, rooms, &roomsData)
	require.Len(t, roomsData.Rooms, 4)
	assert.Equal(t, "room-20", roomsData.Rooms[0].ID)

	// Joining returns the room state with the player seated.
	sendClientMessage(t, conn, MessageTypeJoin, JoinData{RoomID: "room-20"})
	roomMsg := waitForMessage(t, conn, MessageTypeRoom)
	var roomData RoomData
	decodeData(t, roomMsg, &roomData)
	require.Len(t, roomData.Room.Players, 1)
	assert.Equal(t, welcomeData.PlayerID, roomData.Room.Players[0].ID)

	// Out-of-range card IDs are rejected at the transport edge.
	sendClientMessage(t, conn, MessageTypeSelectCard, SelectCardData{RoomID: "room-20", CardID: 101})
	errMsg = waitForMessage(t, conn, MessageTypeError)
	decodeData(t, errMsg, &errData)
	assert.Equal(t, "invalid_card", errData.Code)

	sendClientMessage(t, conn, MessageTypeSelectCard, SelectCardData{RoomID: "room-20", CardID: 7})
	roomMsg = waitForMessage(t, conn, MessageTypeRoom)
	decodeData(t, roomMsg, &roomData)
	assert.Equal(t, 7, roomData.Room.Players[0].CardID)

	// Claiming outside a game reports a rejection, not an error.
	sendClientMessage(t, conn, MessageTypeClaim, ClaimData{RoomID: "room-20"})
	claimMsg := waitForMessage(t, conn, MessageTypeClaimResult)
	var result engine.ClaimResult
	decodeData(t, claimMsg, &result)
	assert.False(t, result.OK)
	assert.Equal(t, engine.ClaimNotPlaying, result.Reason)

	// Chat comes back as a pushed room event.
	sendClientMessage(t, conn, MessageTypeChat, ChatData{RoomID: "room-20", Text: "good luck"})
	chatMsg := waitForMessage(t, conn, MessageTypeChat)
	var chatEvent engine.ChatEvent
	decodeData(t, chatMsg, &chatEvent)
	assert.Equal(t, "Alice", chatEvent.Message.From)
	assert.Equal(t, "good luck", chatEvent.Message.Text)

	// Unknown message types are reported.
	sendClientMessage(t, conn, MessageType("bogus"), nil)
	errMsg = waitForMessage(t, conn, MessageTypeError)
	decodeData(t, errMsg, &errData)
	assert.Equal(t, "unknown_message_type", errData.Code)
}

func TestJoinUnknownRoomFails(t *testing.T) {
	t.Parallel()
	_, _, ts := newTestServer(t)
	conn := dialWebSocket(t, ts)

	sendClientMessage(t, conn, MessageTypeHello, HelloData{Name: "Alice"})
	waitForMessage(t, conn, MessageTypeWelcome)

	sendClientMessage(t, conn, MessageTypeJoin, JoinData{RoomID: "room-99"})
	errMsg := waitForMessage(t, conn, MessageTypeError)
	var errData ErrorData
	decodeData(t, errMsg, &errData)
	assert.Equal(t, "join_failed", errData.Code)
}

func TestDisconnectLeavesRoom(t *testing.T) {
	t.Parallel()
	_, eng, ts := newTestServer(t)
	conn := dialWebSocket(t, ts)

	sendClientMessage(t, conn, MessageTypeHello, HelloData{Name: "Alice"})
	waitForMessage(t, conn, MessageTypeWelcome)
	sendClientMessage(t, conn, MessageTypeJoin, JoinData{RoomID: "room-30"})
	waitForMessage(t, conn, MessageTypeRoom)

	snap, ok := eng.GetRoom("room-30")
	require.True(t, ok)
	require.Len(t, snap.Players, 1)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		snap, _ := eng.GetRoom("room-30")
		return len(snap.Players) == 0
	}, 5*time.Second, 20*time.Millisecond, "disconnect should free the seat")
}

func TestEventFanOutTargetsRoomMembers(t *testing.T) {
	t.Parallel()
	_, _, ts := newTestServer(t)

	inRoom := dialWebSocket(t, ts)
	sendClientMessage(t, inRoom, MessageTypeHello, HelloData{Name: "Alice"})
	waitForMessage(t, inRoom, MessageTypeWelcome)
	sendClientMessage(t, inRoom, MessageTypeJoin, JoinData{RoomID: "room-40"})
	waitForMessage(t, inRoom, MessageTypeRoom)

	elsewhere := dialWebSocket(t, ts)
	sendClientMessage(t, elsewhere, MessageTypeHello, HelloData{Name: "Bob"})
	waitForMessage(t, elsewhere, MessageTypeWelcome)
	sendClientMessage(t, elsewhere, MessageTypeJoin, JoinData{RoomID: "room-50"})
	waitForMessage(t, elsewhere, MessageTypeRoom)

	sendClientMessage(t, inRoom, MessageTypeChat, ChatData{RoomID: "room-40", Text: "hello room"})
	chatMsg := waitForMessage(t, inRoom, MessageTypeChat)
	var chatEvent engine.ChatEvent
	decodeData(t, chatMsg, &chatEvent)
	assert.Equal(t, "hello room", chatEvent.Message.Text)

	// The other room's connection sees lobby-wide updates but never the
	// chat. Round-trip a request and check nothing chat-typed arrived
	// in between.
	sendClientMessage(t, elsewhere, MessageTypeListRooms, nil)
	require.NoError(t, elsewhere.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, elsewhere.ReadJSON(&msg))
		require.NotEqual(t, MessageTypeChat, msg.Type, "chat must not leak across rooms")
		if msg.Type == MessageTypeRooms {
			break
		}
	}
}
