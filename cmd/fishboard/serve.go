package main

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-fishboard/components/tracker"
	"github.com/goliatone/go-fishboard/components/tracker/gorouter"
)

const shutdownTimeout = 15 * time.Second

// formOverhead leaves room for multipart boundaries and the password field.
const formOverhead = 1 << 20

func newFiberApp(title string) func(*fiber.App) *fiber.App {
	return func(*fiber.App) *fiber.App {
		app := fiber.New(fiber.Config{
			AppName:               title,
			UnescapePath:          true,
			BodyLimit:             int(gorouter.DefaultMaxUploadBytes) + formOverhead,
			DisableStartupMessage: true,
		})
		app.Use(recover.New())
		return app
	}
}

type serveCmd struct {
	Addr string `help:"Listen address (overrides config addr)."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	app, err := g.application()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		app.cfg.Addr = cmd.Addr
	}
	renderer, err := tracker.NewTemplateRenderer()
	if err != nil {
		return err
	}
	controller := tracker.NewController(tracker.ControllerOptions{
		Service:  app.service,
		Renderer: renderer,
		Title:    app.cfg.SiteTitle,
		APIURL:   app.cfg.APIURL,
	})

	server := router.NewFiberAdapter(newFiberApp(app.cfg.SiteTitle))
	if err := gorouter.Register(gorouter.Config{
		Router:     server.Router(),
		Controller: controller,
		API:        app.api,
		Logger:     app.logger,
		APIURL:     app.cfg.APIURL,
	}); err != nil {
		return err
	}

	errs := make(chan error, 1)
	go func() {
		app.logger.Info("server starting", "addr", app.cfg.Addr, "api_url", app.cfg.APIURL)
		errs <- server.Serve(app.cfg.Addr)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	app.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	app.logger.Info("server stopped")
	return nil
}
