package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Server  ServerCmd        `cmd:"" help:"Run the guess-the-number server"`
	Client  ClientCmd        `cmd:"" help:"Connect as an interactive player"`
	Bots    BotsCmd          `cmd:"" help:"Connect a fleet of betting bots"`
}

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("guessthenumber"),
		kong.Description("Shared timed guess-the-number betting rounds over WebSocket"),
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
