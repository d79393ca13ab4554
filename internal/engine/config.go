package engine

import "fmt"

// RoomConfig defines one fee tier in the room catalog. The catalog is
// fixed at process start; rooms live for the process lifetime.
type RoomConfig struct {
	ID         string `hcl:"id,label" json:"id"`
	EntryFee   int    `hcl:"entry_fee" json:"entryFee"`
	MinPlayers int    `hcl:"min_players,optional" json:"minPlayers"`
	MaxPlayers int    `hcl:"max_players,optional" json:"maxPlayers"`
	Countdown  int    `hcl:"countdown,optional" json:"countdown"`
}

// ApplyDefaults fills unset optional fields.
func (c *RoomConfig) ApplyDefaults() {
	if c.MinPlayers == 0 {
		c.MinPlayers = 2
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = 50
	}
	if c.Countdown == 0 {
		c.Countdown = 45
	}
}

// Validate checks the tier for configuration mistakes.
func (c *RoomConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("room id must not be empty")
	}
	if c.EntryFee <= 0 {
		return fmt.Errorf("room %s: entry fee must be positive", c.ID)
	}
	if c.MinPlayers < 1 {
		return fmt.Errorf("room %s: min players must be at least 1", c.ID)
	}
	if c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("room %s: max players must be at least min players", c.ID)
	}
	if c.Countdown < 1 {
		return fmt.Errorf("room %s: countdown must be positive", c.ID)
	}
	return nil
}

// DefaultRooms returns the stock four-tier catalog used when no
// configuration file overrides it.
func DefaultRooms() []RoomConfig {
	return []RoomConfig{
		{ID: "room-20", EntryFee: 20, MinPlayers: 2, MaxPlayers: 50, Countdown: 45},
		{ID: "room-30", EntryFee: 30, MinPlayers: 2, MaxPlayers: 50, Countdown: 60},
		{ID: "room-40", EntryFee: 40, MinPlayers: 2, MaxPlayers: 50, Countdown: 75},
		{ID: "room-50", EntryFee: 50, MinPlayers: 2, MaxPlayers: 50, Countdown: 90},
	}
}
