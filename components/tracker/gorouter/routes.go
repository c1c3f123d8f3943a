package gorouter

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-fishboard/components/tracker"
	"github.com/goliatone/go-fishboard/components/tracker/commands"
	"github.com/goliatone/go-fishboard/components/tracker/httpapi"
)

// Route paths. The navigation shell links to the HTML paths directly.
const (
	PathDashboard  = "/"
	PathDirectory  = "/fish"
	PathProfile    = "/fish/:id"
	PathAdmin      = "/admin"
	PathAddFish    = "/admin/fish"
	PathImport     = "/admin/weigh-ins"
	PathAPIDash    = "/api/dashboard"
	PathAPIFish    = "/api/fish"
	PathAPIHistory = "/api/fish/:id/history"
	PathHealth     = "/healthz"
)

// DefaultMaxUploadBytes caps admin form bodies.
const DefaultMaxUploadBytes = 10 << 20

const requestIDHeader = "X-Request-ID"

// Routes is the part of router.Router[T] used to mount handlers.
type Routes interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// Config wires go-router with the tracker controller and executor.
type Config struct {
	Router         Routes
	Controller     *tracker.Controller
	API            httpapi.Executor
	Logger         *slog.Logger
	APIURL         string
	MaxUploadBytes int64
}

type handlerFunc func(Request) error

type route struct {
	method string
	path   string
	handle handlerFunc
}

// Register mounts the HTML pages, admin form posts, JSON summaries and the
// health check.
func Register(cfg Config) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	routes, err := cfg.table()
	if err != nil {
		return err
	}
	logger := cfg.logger()
	for _, rt := range routes {
		handle := logged(logger, rt)
		wrapped := router.WrapHandler(func(ctx router.Context) error {
			return handle(routerRequest{ctx: ctx})
		})
		switch rt.method {
		case http.MethodGet:
			cfg.Router.Get(rt.path, wrapped)
		case http.MethodPost:
			cfg.Router.Post(rt.path, wrapped)
		}
	}
	return nil
}

func (cfg Config) table() ([]route, error) {
	if cfg.Controller == nil {
		return nil, errors.New("gorouter: controller is required")
	}
	if cfg.API == nil {
		return nil, errors.New("gorouter: api executor is required")
	}
	h := handlers{
		controller: cfg.Controller,
		api:        cfg.API,
		apiURL:     cfg.APIURL,
		maxUpload:  cfg.MaxUploadBytes,
	}
	if h.maxUpload <= 0 {
		h.maxUpload = DefaultMaxUploadBytes
	}
	return []route{
		{http.MethodGet, PathDashboard, h.dashboard},
		{http.MethodGet, PathDirectory, h.directory},
		{http.MethodGet, PathProfile, h.profile},
		{http.MethodGet, PathAdmin, h.admin},
		{http.MethodPost, PathAddFish, h.addFish},
		{http.MethodPost, PathImport, h.importWeighIns},
		{http.MethodGet, PathAPIDash, h.apiDashboard},
		{http.MethodGet, PathAPIFish, h.apiDirectory},
		{http.MethodGet, PathAPIHistory, h.apiHistory},
		{http.MethodGet, PathHealth, health},
	}, nil
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

// logged assigns a request id, exposes it to outbound calls and writes one
// log line per request.
func logged(logger *slog.Logger, rt route) handlerFunc {
	return func(req Request) error {
		start := time.Now()
		id := req.Header(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		req.SetHeader(requestIDHeader, id)
		tracked := &trackedRequest{
			Request: req,
			ctx:     tracker.WithRequestID(req.Context(), id),
		}
		err := rt.handle(tracked)
		level := slog.LevelInfo
		if err != nil || tracked.statusCode() >= 500 {
			level = slog.LevelError
		}
		attrs := []slog.Attr{
			slog.String("method", rt.method),
			slog.String("route", rt.path),
			slog.Int("status", tracked.statusCode()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", id),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		logger.LogAttrs(tracked.ctx, level, "http request", attrs...)
		return err
	}
}

type handlers struct {
	controller *tracker.Controller
	api        httpapi.Executor
	apiURL     string
	maxUpload  int64
}

func (h handlers) dashboard(req Request) error {
	return h.page(req, http.StatusOK, func(out io.Writer) error {
		return h.controller.RenderDashboard(req.Context(), out)
	})
}

func (h handlers) directory(req Request) error {
	return h.page(req, http.StatusOK, func(out io.Writer) error {
		return h.controller.RenderDirectory(req.Context(), out)
	})
}

func (h handlers) profile(req Request) error {
	raw := req.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return h.page(req, http.StatusBadRequest, func(out io.Writer) error {
			return h.controller.RenderInvalidProfile(req.Context(), raw, out)
		})
	}
	return h.page(req, http.StatusOK, func(out io.Writer) error {
		return h.controller.RenderProfile(req.Context(), id, out)
	})
}

func (h handlers) admin(req Request) error {
	return h.renderAdmin(req, http.StatusOK, tracker.AdminState{})
}

func (h handlers) addFish(req Request) error {
	form, err := parseForm(req, h.maxUpload)
	if err != nil {
		return h.renderAdmin(req, http.StatusBadRequest, tracker.AdminState{Error: err.Error()})
	}
	result, err := h.api.AddFish(req.Context(), commands.AddFishInput{
		Name:     form.values.Get("name"),
		Notes:    form.values.Get("notes"),
		Password: form.values.Get("password"),
	})
	return h.adminOutcome(req, result, err)
}

func (h handlers) importWeighIns(req Request) error {
	form, err := parseForm(req, h.maxUpload)
	if err != nil {
		return h.renderAdmin(req, http.StatusBadRequest, tracker.AdminState{Error: err.Error()})
	}
	input := commands.ImportWeighInsInput{Password: form.values.Get("password")}
	if form.file != nil {
		input.Filename = form.file.name
		input.Content = form.file.content
	}
	result, err := h.api.ImportWeighIns(req.Context(), input)
	return h.adminOutcome(req, result, err)
}

func (h handlers) adminOutcome(req Request, result tracker.AdminResult, err error) error {
	if err != nil {
		return h.renderAdmin(req, errorStatus(err), tracker.AdminState{Error: tracker.DisplayMessage(err, h.apiURL)})
	}
	return h.renderAdmin(req, http.StatusOK, tracker.AdminState{Message: result.Message})
}

func (h handlers) renderAdmin(req Request, status int, state tracker.AdminState) error {
	return h.page(req, status, func(out io.Writer) error {
		return h.controller.RenderAdmin(req.Context(), state, out)
	})
}

func (h handlers) page(req Request, status int, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return respondError(req, http.StatusInternalServerError, err)
	}
	req.SetHeader("Content-Type", "text/html; charset=utf-8")
	req.Status(status)
	return req.Send(buf.Bytes())
}

func (h handlers) apiDashboard(req Request) error {
	view, err := h.api.Dashboard(req.Context())
	if err != nil {
		return h.apiError(req, err)
	}
	return req.JSON(http.StatusOK, view)
}

func (h handlers) apiDirectory(req Request) error {
	cards, err := h.api.Directory(req.Context())
	if err != nil {
		return h.apiError(req, err)
	}
	return req.JSON(http.StatusOK, map[string]any{"fish": cards})
}

func (h handlers) apiHistory(req Request) error {
	raw := req.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return respondMessage(req, http.StatusBadRequest, strconv.Quote(raw)+" is not a valid fish id")
	}
	view, err := h.api.Profile(req.Context(), id)
	if err != nil {
		return h.apiError(req, err)
	}
	return req.JSON(http.StatusOK, map[string]any{
		"id":      view.Summary.ID,
		"name":    view.Summary.Name,
		"history": view.History,
	})
}

func (h handlers) apiError(req Request, err error) error {
	return respondMessage(req, errorStatus(err), tracker.DisplayMessage(err, h.apiURL))
}

func health(req Request) error {
	return req.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func errorStatus(err error) int {
	var invalid *tracker.ValidationError
	var remote *tracker.RemoteError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrFishNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrUnreachable), errors.As(err, &remote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(req Request, status int, err error) error {
	return respondMessage(req, status, err.Error())
}

func respondMessage(req Request, status int, msg string) error {
	return req.JSON(status, map[string]string{"error": msg})
}
