package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Options configures the tracker Service. Collaborators are interfaces so the
// HTTP client, a snapshot cache or test fakes can be swapped freely.
type Options struct {
	Source    FishSource
	Writer    AdminWriter
	Charts    *ChartRenderer
	Telemetry Telemetry
	TopN      int
}

// Service turns the fish list into dashboard, directory and profile views.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Charts == nil {
		opts.Charts = NewChartRenderer()
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts}
}

// ChartPanel is a rendered chart ready to drop into a page.
type ChartPanel struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	HTML  string `json:"-"`
	Empty bool   `json:"empty"`
}

// DashboardView holds the aggregate charts shown on the landing page.
type DashboardView struct {
	TopWeights []WeightRank `json:"top_weights"`
	Locations  []LabelCount `json:"locations"`
	Baits      []LabelCount `json:"baits"`
	Charts     []ChartPanel `json:"-"`
	FishCount  int          `json:"fish_count"`
}

// WeighInCard is a weigh-in formatted for the profile page.
type WeighInCard struct {
	Date     string `json:"date"`
	Weight   string `json:"weight"`
	Length   string `json:"length,omitempty"`
	Girth    string `json:"girth,omitempty"`
	Location string `json:"location,omitempty"`
	Bait     string `json:"bait,omitempty"`
}

// ProfileView holds a single fish profile.
type ProfileView struct {
	Summary  FishSummary    `json:"summary"`
	History  []HistoryPoint `json:"history"`
	WeighIns []WeighInCard  `json:"weigh_ins"`
	Chart    ChartPanel     `json:"-"`
}

// Dashboard fetches every fish and builds the aggregate charts.
func (s *Service) Dashboard(ctx context.Context) (DashboardView, error) {
	fish, err := s.fetch(ctx)
	if err != nil {
		return DashboardView{}, err
	}
	view := DashboardView{
		TopWeights: TopWeights(fish, s.opts.TopN),
		Locations:  LabelCounts(fish, LabelLocation),
		Baits:      SortByCount(LabelCounts(fish, LabelBait)),
		FishCount:  len(fish),
	}
	charts := []Chart{
		TopWeightsChart(view.TopWeights, s.opts.TopN),
		LabelPieChart("PopularLocations", "Most Popular Locations", view.Locations),
		LabelBarChart("TopBaits", "Top Baits Used", view.Baits),
	}
	for _, chart := range charts {
		panel, err := s.panel(chart)
		if err != nil {
			return DashboardView{}, err
		}
		view.Charts = append(view.Charts, panel)
	}
	s.opts.Telemetry.Record(ctx, "tracker.dashboard.render", map[string]any{
		"fish":   len(fish),
		"ranked": len(view.TopWeights),
	})
	return view, nil
}

// Leaderboard ranks the n heaviest fish. n <= 0 uses the configured size.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]WeightRank, error) {
	fish, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.opts.TopN
	}
	return TopWeights(fish, n), nil
}

// Directory returns a summary card for every fish in source order.
func (s *Service) Directory(ctx context.Context) ([]FishSummary, error) {
	fish, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	cards := make([]FishSummary, len(fish))
	for i, f := range fish {
		cards[i] = Summarize(f)
	}
	s.opts.Telemetry.Record(ctx, "tracker.directory.render", map[string]any{"fish": len(cards)})
	return cards, nil
}

// Profile builds the profile of the fish with the given id.
func (s *Service) Profile(ctx context.Context, id int) (ProfileView, error) {
	fish, err := s.fetch(ctx)
	if err != nil {
		return ProfileView{}, err
	}
	found, ok := FindFish(fish, id)
	if !ok {
		return ProfileView{}, fmt.Errorf("tracker: fish %d: %w", id, ErrFishNotFound)
	}
	history := WeightHistory(found)
	chart, err := s.panel(HistoryChart(found.ID, history))
	if err != nil {
		return ProfileView{}, err
	}
	sorted := SortedWeighIns(found)
	cards := make([]WeighInCard, len(sorted))
	for i, w := range sorted {
		cards[i] = weighInCard(w)
	}
	s.opts.Telemetry.Record(ctx, "tracker.profile.render", map[string]any{
		"fish_id":   id,
		"weigh_ins": len(cards),
	})
	return ProfileView{
		Summary:  Summarize(found),
		History:  history,
		WeighIns: cards,
		Chart:    chart,
	}, nil
}

// AddFish forwards a new fish to the remote API.
func (s *Service) AddFish(ctx context.Context, input AddFishInput) (AdminResult, error) {
	if s.opts.Writer == nil {
		return AdminResult{}, ErrMissingWriter
	}
	result, err := s.opts.Writer.AddFish(ctx, input)
	if err != nil {
		return AdminResult{}, err
	}
	s.invalidate()
	s.opts.Telemetry.Record(ctx, "tracker.admin.add_fish", map[string]any{"name": input.Name})
	return result, nil
}

// UploadWeighIns forwards a weigh-in CSV to the remote API.
func (s *Service) UploadWeighIns(ctx context.Context, input UploadWeighInsInput) (AdminResult, error) {
	if s.opts.Writer == nil {
		return AdminResult{}, ErrMissingWriter
	}
	result, err := s.opts.Writer.UploadWeighIns(ctx, input)
	if err != nil {
		return AdminResult{}, err
	}
	s.invalidate()
	s.opts.Telemetry.Record(ctx, "tracker.admin.upload_weigh_ins", map[string]any{
		"filename": input.Filename,
		"bytes":    len(input.Content),
	})
	return result, nil
}

func (s *Service) fetch(ctx context.Context) ([]Fish, error) {
	if s.opts.Source == nil {
		return nil, ErrMissingSource
	}
	fish, err := s.opts.Source.FetchFish(ctx)
	if err != nil {
		s.opts.Telemetry.Record(ctx, "tracker.source.error", map[string]any{"error": err.Error()})
		return nil, err
	}
	return fish, nil
}

func (s *Service) panel(chart Chart) (ChartPanel, error) {
	panel := ChartPanel{Key: chart.Key, Title: chart.Title}
	html, err := s.opts.Charts.Render(chart)
	if errors.Is(err, errEmptyChart) {
		panel.Empty = true
		return panel, nil
	}
	if err != nil {
		return ChartPanel{}, fmt.Errorf("tracker: render %s chart: %w", chart.Key, err)
	}
	panel.HTML = html
	return panel, nil
}

func (s *Service) invalidate() {
	if inv, ok := s.opts.Source.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}
}

func weighInCard(w WeighIn) WeighInCard {
	return WeighInCard{
		Date:     FormatDate(w.Date),
		Weight:   formatNumber(w.Weight),
		Length:   formatOptional(w.Length),
		Girth:    formatOptional(w.Girth),
		Location: w.Location,
		Bait:     w.Bait,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}
