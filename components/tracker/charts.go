package tracker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ettle/strcase"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "300px"

var errEmptyChart = errors.New("tracker: chart has no data")

// chartText keeps API-provided labels from closing the chart <script>.
// go-echarts writes options JSON without HTML escaping and any escape added
// here would be encoded again, so angle brackets become fullwidth lookalikes.
var chartText = strings.NewReplacer("<", "\uFF1C", ">", "\uFF1E")

// ChartKind selects the go-echarts chart used for a series.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// Chart describes a chart before it is rendered to HTML.
type Chart struct {
	Key      string
	Kind     ChartKind
	Title    string
	Subtitle string
	XAxis    []string
	Series   []ChartSeries
}

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint represents an individual labeled value.
type ChartPoint struct {
	Label string
	Value float64
}

func (c Chart) empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// ChartRenderer renders charts to server-side go-echarts markup.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// ChartOption customizes renderer behavior.
type ChartOption func(*ChartRenderer)

// WithChartCache injects a render cache. A nil cache disables memoization.
func WithChartCache(cache RenderCache) ChartOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the ECharts theme (defaults to Westeros).
func WithChartTheme(theme string) ChartOption {
	return func(r *ChartRenderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartOption {
	return func(r *ChartRenderer) {
		r.assetsHost = ensureTrailingSlash(host)
	}
}

func ensureTrailingSlash(value string) string {
	if value == "" || strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}

// NewChartRenderer builds a renderer with a five minute chart cache.
func NewChartRenderer(options ...ChartOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: NewChartCache(5 * time.Minute),
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render converts the chart into HTML. Charts without points return
// errEmptyChart so callers can show an empty state instead.
func (r *ChartRenderer) Render(chart Chart) (string, error) {
	if chart.empty() {
		return "", errEmptyChart
	}
	chart = sanitizeChart(chart)
	renderFn := func() (string, error) {
		return r.render(chart)
	}
	if r.cache == nil {
		return renderFn()
	}
	key := fmt.Sprintf("%s:%s:%s:%s", chart.Key, chart.Kind, r.theme, contentHash(chart))
	return r.cache.GetOrRender(key, renderFn)
}

func (r *ChartRenderer) render(chart Chart) (string, error) {
	switch chart.Kind {
	case ChartBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions(chart)...)
		bar.SetXAxis(chart.XAxis)
		for _, s := range chart.Series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		return renderChart(bar)
	case ChartLine:
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalChartOptions(chart)...)
		line.SetXAxis(chart.XAxis)
		for _, s := range chart.Series {
			line.AddSeries(s.Name, toLineData(s.Points))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case ChartPie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalChartOptions(chart)...)
		for _, s := range chart.Series {
			pie.AddSeries(s.Name, toPieData(s.Points))
		}
		return renderChart(pie)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", chart.Kind)
	}
}

func sanitizeChart(chart Chart) Chart {
	chart.Title = chartText.Replace(chart.Title)
	chart.Subtitle = chartText.Replace(chart.Subtitle)
	axis := make([]string, len(chart.XAxis))
	for i, label := range chart.XAxis {
		axis[i] = chartText.Replace(label)
	}
	chart.XAxis = axis
	series := make([]ChartSeries, len(chart.Series))
	for i, s := range chart.Series {
		points := make([]ChartPoint, len(s.Points))
		for j, p := range s.Points {
			points[j] = ChartPoint{Label: chartText.Replace(p.Label), Value: p.Value}
		}
		series[i] = ChartSeries{Name: chartText.Replace(s.Name), Points: points}
	}
	chart.Series = series
	return chart
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ChartRenderer) globalChartOptions(chart Chart) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:   r.theme,
		Width:   "100%",
		Height:  defaultChartHeight,
		ChartID: "chart_" + strcase.ToSnake(chart.Key),
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: chart.Title, Subtitle: chart.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(chart.Kind == ChartPie)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}

// TopWeightsChart plots the heaviest-fish leaderboard as a bar chart.
func TopWeightsChart(ranks []WeightRank, n int) Chart {
	axis := make([]string, len(ranks))
	points := make([]ChartPoint, len(ranks))
	for i, rank := range ranks {
		axis[i] = rank.Name
		points[i] = ChartPoint{Label: rank.Name, Value: rank.Weight}
	}
	return Chart{
		Key:    "TopWeights",
		Kind:   ChartBar,
		Title:  fmt.Sprintf("Heaviest Fish (Top %d)", n),
		XAxis:  axis,
		Series: []ChartSeries{{Name: "Weight (lbs)", Points: points}},
	}
}

// LabelPieChart plots label counts as pie slices.
func LabelPieChart(key, title string, counts []LabelCount) Chart {
	return Chart{
		Key:    key,
		Kind:   ChartPie,
		Title:  title,
		Series: []ChartSeries{{Name: title, Points: countPoints(counts)}},
	}
}

// LabelBarChart plots label counts as bars.
func LabelBarChart(key, title string, counts []LabelCount) Chart {
	axis := make([]string, len(counts))
	for i, c := range counts {
		axis[i] = c.Name
	}
	return Chart{
		Key:    key,
		Kind:   ChartBar,
		Title:  title,
		XAxis:  axis,
		Series: []ChartSeries{{Name: "Weigh-ins", Points: countPoints(counts)}},
	}
}

// HistoryChart plots a fish's weight history as a line.
func HistoryChart(fishID int, points []HistoryPoint) Chart {
	axis := make([]string, len(points))
	values := make([]ChartPoint, len(points))
	for i, p := range points {
		axis[i] = p.Date
		values[i] = ChartPoint{Label: p.Date, Value: p.Weight}
	}
	return Chart{
		Key:    fmt.Sprintf("WeightHistory%d", fishID),
		Kind:   ChartLine,
		Title:  "Weight History",
		XAxis:  axis,
		Series: []ChartSeries{{Name: "Weight (lbs)", Points: values}},
	}
}

func countPoints(counts []LabelCount) []ChartPoint {
	points := make([]ChartPoint, len(counts))
	for i, c := range counts {
		points[i] = ChartPoint{Label: c.Name, Value: float64(c.Count)}
	}
	return points
}
