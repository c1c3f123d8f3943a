package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

type cli struct {
	Globals

	Serve       serveCmd       `cmd:"" help:"Run the dashboard web server."`
	Leaderboard leaderboardCmd `cmd:"" help:"Print the heaviest fish."`
	Fish        fishCmd        `cmd:"" help:"Browse tracked fish."`
	Admin       adminCmd       `cmd:"" help:"Forward admin writes to the fish API."`
}

// Globals are shared by every command and override the config file.
type Globals struct {
	Config   string `short:"c" type:"path" env:"FISHBOARD_CONFIG" help:"YAML or TOML config file."`
	EnvFile  string `name:"env-file" default:".env" help:"Dotenv file with FISHBOARD_* variables (\"-\" to skip)."`
	APIURL   string `name:"api-url" help:"Fish API base url."`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app cli
	kctx := kong.Parse(&app,
		kong.Name("fishboard"),
		kong.Description("Fishing catch dashboard backed by a remote fish API."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&app.Globals)
	kctx.FatalIfErrorf(err)
}
