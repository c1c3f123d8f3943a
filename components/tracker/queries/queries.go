package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-fishboard/components/tracker"
)

type readService interface {
	Dashboard(ctx context.Context) (tracker.DashboardView, error)
	Directory(ctx context.Context) ([]tracker.FishSummary, error)
	Profile(ctx context.Context, id int) (tracker.ProfileView, error)
	Leaderboard(ctx context.Context, n int) ([]tracker.WeightRank, error)
}

// DashboardRequest asks for the aggregate dashboard view.
type DashboardRequest struct{}

// DirectoryRequest asks for every fish summary.
type DirectoryRequest struct{}

// ProfileRequest asks for a single fish.
type ProfileRequest struct {
	ID int `json:"id"`
}

// LeaderboardRequest asks for the Top heaviest fish.
type LeaderboardRequest struct {
	Top int `json:"top"`
}

// DashboardQuery resolves the dashboard view.
type DashboardQuery struct {
	service readService
}

// NewDashboardQuery builds the query.
func NewDashboardQuery(service readService) *DashboardQuery {
	return &DashboardQuery{service: service}
}

var _ gocommand.Querier[DashboardRequest, tracker.DashboardView] = (*DashboardQuery)(nil)

// Query fetches and aggregates the fish list.
func (q *DashboardQuery) Query(ctx context.Context, _ DashboardRequest) (tracker.DashboardView, error) {
	return q.service.Dashboard(ctx)
}

// DirectoryQuery resolves the fish directory.
type DirectoryQuery struct {
	service readService
}

// NewDirectoryQuery builds the query.
func NewDirectoryQuery(service readService) *DirectoryQuery {
	return &DirectoryQuery{service: service}
}

var _ gocommand.Querier[DirectoryRequest, []tracker.FishSummary] = (*DirectoryQuery)(nil)

// Query returns one summary per fish.
func (q *DirectoryQuery) Query(ctx context.Context, _ DirectoryRequest) ([]tracker.FishSummary, error) {
	return q.service.Directory(ctx)
}

// ProfileQuery resolves a fish profile.
type ProfileQuery struct {
	service readService
}

// NewProfileQuery builds the query.
func NewProfileQuery(service readService) *ProfileQuery {
	return &ProfileQuery{service: service}
}

var _ gocommand.Querier[ProfileRequest, tracker.ProfileView] = (*ProfileQuery)(nil)

// Query returns the profile, or an error wrapping tracker.ErrFishNotFound.
func (q *ProfileQuery) Query(ctx context.Context, req ProfileRequest) (tracker.ProfileView, error) {
	return q.service.Profile(ctx, req.ID)
}

// LeaderboardQuery resolves the heaviest-fish ranking.
type LeaderboardQuery struct {
	service readService
}

// NewLeaderboardQuery builds the query.
func NewLeaderboardQuery(service readService) *LeaderboardQuery {
	return &LeaderboardQuery{service: service}
}

var _ gocommand.Querier[LeaderboardRequest, []tracker.WeightRank] = (*LeaderboardQuery)(nil)

// Query ranks the heaviest fish.
func (q *LeaderboardQuery) Query(ctx context.Context, req LeaderboardRequest) ([]tracker.WeightRank, error) {
	return q.service.Leaderboard(ctx, req.Top)
}
