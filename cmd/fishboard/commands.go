package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-fishboard/components/tracker/commands"
)

type leaderboardCmd struct {
	Top int `short:"n" default:"0" help:"Number of fish to rank (defaults to config top_n)."`
}

func (cmd *leaderboardCmd) Run(ctx context.Context, g *Globals) error {
	app, err := g.application()
	if err != nil {
		return err
	}
	ranks, err := app.api.Leaderboard(ctx, cmd.Top)
	if err != nil {
		return app.fail(err)
	}
	renderLeaderboard(stdout, defaultStyles(), ranks)
	return nil
}

type fishCmd struct {
	List fishListCmd `cmd:"" help:"List every fish."`
	Show fishShowCmd `cmd:"" help:"Show a fish profile."`
}

type fishListCmd struct{}

func (cmd *fishListCmd) Run(ctx context.Context, g *Globals) error {
	app, err := g.application()
	if err != nil {
		return err
	}
	cards, err := app.api.Directory(ctx)
	if err != nil {
		return app.fail(err)
	}
	renderDirectory(stdout, defaultStyles(), cards)
	return nil
}

type fishShowCmd struct {
	ID int `arg:"" help:"Fish id."`
}

func (cmd *fishShowCmd) Run(ctx context.Context, g *Globals) error {
	app, err := g.application()
	if err != nil {
		return err
	}
	view, err := app.api.Profile(ctx, cmd.ID)
	if err != nil {
		return app.fail(err)
	}
	renderProfile(stdout, defaultStyles(), view)
	return nil
}

type adminCmd struct {
	AddFish addFishCmd `cmd:"" name:"add-fish" help:"Create a fish."`
	Import  importCmd  `cmd:"" help:"Upload a weigh-in CSV (fish_id, date, weight, length, girth, location, bait)."`
}

type addFishCmd struct {
	Name     string `required:"" help:"Fish name."`
	Notes    string `help:"Free-form notes."`
	Password string `env:"FISHBOARD_ADMIN_PASSWORD" help:"Admin password."`
}

func (cmd *addFishCmd) Run(ctx context.Context, g *Globals) error {
	app, err := g.application()
	if err != nil {
		return err
	}
	result, err := app.api.AddFish(ctx, commands.AddFishInput{
		Name:     cmd.Name,
		Notes:    cmd.Notes,
		Password: cmd.Password,
	})
	if err != nil {
		return app.fail(err)
	}
	renderMessage(stdout, defaultStyles(), result.Message)
	return nil
}

type importCmd struct {
	File     string `arg:"" type:"existingfile" help:"CSV file to upload."`
	Password string `env:"FISHBOARD_ADMIN_PASSWORD" help:"Admin password."`
}

func (cmd *importCmd) Run(ctx context.Context, g *Globals) error {
	app, err := g.application()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(cmd.File) //nolint:gosec
	if err != nil {
		return fmt.Errorf("fishboard: read %s: %w", cmd.File, err)
	}
	result, err := app.api.ImportWeighIns(ctx, commands.ImportWeighInsInput{
		Filename: cmd.File,
		Content:  content,
		Password: cmd.Password,
	})
	if err != nil {
		return app.fail(err)
	}
	renderMessage(stdout, defaultStyles(), result.Message)
	return nil
}
