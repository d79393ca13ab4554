package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/engine"
)

func TestRoomConfigApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := engine.RoomConfig{ID: "room-20", EntryFee: 20}
	cfg.ApplyDefaults()
	assert.Equal(t, 2, cfg.MinPlayers)
	assert.Equal(t, 50, cfg.MaxPlayers)
	assert.Equal(t, 45, cfg.Countdown)

	// Explicit values survive.
	cfg = engine.RoomConfig{ID: "room-20", EntryFee: 20, MinPlayers: 5, MaxPlayers: 10, Countdown: 99}
	cfg.ApplyDefaults()
	assert.Equal(t, 5, cfg.MinPlayers)
	assert.Equal(t, 10, cfg.MaxPlayers)
	assert.Equal(t, 99, cfg.Countdown)
}

func TestRoomConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     engine.RoomConfig
		wantErr string
	}{
		{"valid", engine.RoomConfig{ID: "r", EntryFee: 20, MinPlayers: 2, MaxPlayers: 50, Countdown: 45}, ""},
		{"empty id", engine.RoomConfig{EntryFee: 20, MinPlayers: 2, MaxPlayers: 50, Countdown: 45}, "id"},
		{"zero fee", engine.RoomConfig{ID: "r", MinPlayers: 2, MaxPlayers: 50, Countdown: 45}, "entry fee"},
		{"zero min", engine.RoomConfig{ID: "r", EntryFee: 20, MaxPlayers: 50, Countdown: 45}, "min players"},
		{"max below min", engine.RoomConfig{ID: "r", EntryFee: 20, MinPlayers: 5, MaxPlayers: 2, Countdown: 45}, "max players"},
		{"zero countdown", engine.RoomConfig{ID: "r", EntryFee: 20, MinPlayers: 2, MaxPlayers: 50}, "countdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDefaultRooms(t *testing.T) {
	t.Parallel()

	rooms := engine.DefaultRooms()
	require.Len(t, rooms, 4)
	seenIDs := make(map[string]bool)
	for _, r := range rooms {
		require.NoError(t, r.Validate())
		assert.False(t, seenIDs[r.ID], "duplicate id %s", r.ID)
		seenIDs[r.ID] = true
	}
	assert.Equal(t, 20, rooms[0].EntryFee)
	assert.Equal(t, 45, rooms[0].Countdown)
	assert.Equal(t, 50, rooms[3].EntryFee)
	assert.Equal(t, 90, rooms[3].Countdown)
}
