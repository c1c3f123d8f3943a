package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/goliatone/go-fishboard/components/tracker"
	"github.com/goliatone/go-fishboard/components/tracker/httpapi"
	"github.com/goliatone/go-fishboard/internal/config"
	"github.com/goliatone/go-fishboard/pkg/fishapi"
)

// load merges the config sources and applies the global flags on top.
func (g *Globals) load() (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{Path: g.Config, EnvFile: g.EnvFile})
	if err != nil {
		return config.Config{}, err
	}
	if g.APIURL != "" {
		cfg.APIURL = g.APIURL
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// application holds everything built from one config.
type application struct {
	cfg     config.Config
	logger  *slog.Logger
	service *tracker.Service
	api     *httpapi.Handlers
}

func newApplication(cfg config.Config, logger *slog.Logger) (*application, error) {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = -1
	}
	client, err := fishapi.NewHTTPClient(fishapi.HTTPConfig{
		BaseURL: cfg.APIURL,
		Timeout: timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	telemetry := tracker.NewSlogTelemetry(logger)
	snapshot := tracker.NewSnapshotSource(client, cfg.CacheTTL)
	charts := tracker.NewChartRenderer(
		tracker.WithChartCache(tracker.NewChartCache(cfg.ChartCacheTTL)),
		tracker.WithChartTheme(cfg.ChartTheme),
		tracker.WithChartAssetsHost(cfg.AssetsHost),
	)
	service := tracker.NewService(tracker.Options{
		Source:    snapshot,
		Writer:    client,
		Charts:    charts,
		Telemetry: telemetry,
		TopN:      cfg.TopN,
	})
	return &application{
		cfg:     cfg,
		logger:  logger,
		service: service,
		api:     httpapi.NewHandlers(service, tracker.NewJSONSchemaValidator(), telemetry),
	}, nil
}

func (g *Globals) application() (*application, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, err
	}
	return newApplication(cfg, newLogger(cfg, stderr))
}

// displayError shows the user-facing message while keeping the cause.
type displayError struct {
	msg string
	err error
}

func (e *displayError) Error() string { return e.msg }
func (e *displayError) Unwrap() error { return e.err }

func (a *application) fail(err error) error {
	if err == nil {
		return nil
	}
	var shown *displayError
	if errors.As(err, &shown) {
		return err
	}
	return &displayError{msg: tracker.DisplayMessage(err, a.cfg.APIURL), err: err}
}
