package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/engine"
)

// Config is the complete server configuration: the listener settings and
// the room catalog.
type Config struct {
	Server Settings            `hcl:"server,block"`
	Rooms  []engine.RoomConfig `hcl:"room,block"`
}

// Settings contains server-level configuration.
type Settings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// DefaultConfig returns the stock configuration: local listener and the
// four-tier room catalog.
func DefaultConfig() *Config {
	return &Config{
		Server: Settings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Rooms: engine.DefaultRooms(),
	}
}

// LoadConfig loads configuration from an HCL file, falling back to the
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}

	if len(config.Rooms) == 0 {
		config.Rooms = engine.DefaultRooms()
	}
	for i := range config.Rooms {
		config.Rooms[i].ApplyDefaults()
	}

	return &config, nil
}

// Validate checks the configuration for mistakes worth refusing to start
// over.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Rooms) == 0 {
		return fmt.Errorf("at least one room must be configured")
	}
	seen := make(map[string]bool, len(c.Rooms))
	for _, room := range c.Rooms {
		if err := room.Validate(); err != nil {
			return err
		}
		if seen[room.ID] {
			return fmt.Errorf("duplicate room id %q", room.ID)
		}
		seen[room.ID] = true
	}
	return nil
}

// ListenAddress returns the host:port the server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
