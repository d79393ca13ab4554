package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the bingo WebSocket server"`
	Play    PlayCmd          `cmd:"" help:"Play bingo against bots in the terminal"`
	Card    CardCmd          `cmd:"" help:"Print the deterministic card for an identifier"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bingobuzz"),
		kong.Description("Multiplayer 75-ball bingo rooms with timed draws and auditable cards"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
