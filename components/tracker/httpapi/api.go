package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-fishboard/components/tracker"
	"github.com/goliatone/go-fishboard/components/tracker/commands"
	"github.com/goliatone/go-fishboard/components/tracker/queries"
)

// Executor is the read and admin surface shared by the HTTP routes and the CLI.
type Executor interface {
	Dashboard(ctx context.Context) (tracker.DashboardView, error)
	Directory(ctx context.Context) ([]tracker.FishSummary, error)
	Profile(ctx context.Context, id int) (tracker.ProfileView, error)
	Leaderboard(ctx context.Context, top int) ([]tracker.WeightRank, error)
	AddFish(ctx context.Context, input commands.AddFishInput) (tracker.AdminResult, error)
	ImportWeighIns(ctx context.Context, input commands.ImportWeighInsInput) (tracker.AdminResult, error)
}

var errNotConfigured = errors.New("httpapi: handler not configured")

// Handlers dispatches to go-command queries and commanders.
type Handlers struct {
	DashboardQuery   gocommand.Querier[queries.DashboardRequest, tracker.DashboardView]
	DirectoryQuery   gocommand.Querier[queries.DirectoryRequest, []tracker.FishSummary]
	ProfileQuery     gocommand.Querier[queries.ProfileRequest, tracker.ProfileView]
	LeaderboardQuery gocommand.Querier[queries.LeaderboardRequest, []tracker.WeightRank]
	AddFishCommand   gocommand.Commander[commands.AddFishInput]
	ImportCommand    gocommand.Commander[commands.ImportWeighInsInput]
}

var _ Executor = (*Handlers)(nil)

// NewHandlers wires every query and command against one tracker service.
func NewHandlers(service *tracker.Service, validator tracker.FormValidator, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		DashboardQuery:   queries.NewDashboardQuery(service),
		DirectoryQuery:   queries.NewDirectoryQuery(service),
		ProfileQuery:     queries.NewProfileQuery(service),
		LeaderboardQuery: queries.NewLeaderboardQuery(service),
		AddFishCommand:   commands.NewAddFishCommand(service, validator, telemetry),
		ImportCommand:    commands.NewImportWeighInsCommand(service, validator, telemetry),
	}
}

func (h *Handlers) Dashboard(ctx context.Context) (tracker.DashboardView, error) {
	if h.DashboardQuery == nil {
		return tracker.DashboardView{}, errNotConfigured
	}
	return h.DashboardQuery.Query(ctx, queries.DashboardRequest{})
}

func (h *Handlers) Directory(ctx context.Context) ([]tracker.FishSummary, error) {
	if h.DirectoryQuery == nil {
		return nil, errNotConfigured
	}
	return h.DirectoryQuery.Query(ctx, queries.DirectoryRequest{})
}

func (h *Handlers) Profile(ctx context.Context, id int) (tracker.ProfileView, error) {
	if h.ProfileQuery == nil {
		return tracker.ProfileView{}, errNotConfigured
	}
	return h.ProfileQuery.Query(ctx, queries.ProfileRequest{ID: id})
}

func (h *Handlers) Leaderboard(ctx context.Context, top int) ([]tracker.WeightRank, error) {
	if h.LeaderboardQuery == nil {
		return nil, errNotConfigured
	}
	return h.LeaderboardQuery.Query(ctx, queries.LeaderboardRequest{Top: top})
}

// AddFish runs the add-fish command and returns the upstream message.
func (h *Handlers) AddFish(ctx context.Context, input commands.AddFishInput) (tracker.AdminResult, error) {
	if h.AddFishCommand == nil {
		return tracker.AdminResult{}, errNotConfigured
	}
	var result tracker.AdminResult
	input.Result = &result
	if err := h.AddFishCommand.Execute(ctx, input); err != nil {
		return tracker.AdminResult{}, err
	}
	return result, nil
}

// ImportWeighIns runs the CSV import command and returns the upstream message.
func (h *Handlers) ImportWeighIns(ctx context.Context, input commands.ImportWeighInsInput) (tracker.AdminResult, error) {
	if h.ImportCommand == nil {
		return tracker.AdminResult{}, errNotConfigured
	}
	var result tracker.AdminResult
	input.Result = &result
	if err := h.ImportCommand.Execute(ctx, input); err != nil {
		return tracker.AdminResult{}, err
	}
	return result, nil
}
