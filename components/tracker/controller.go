package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Page template names.
const (
	TemplateLayout    = "layout.html"
	TemplateDashboard = "dashboard.html"
	TemplateDirectory = "directory.html"
	TemplateProfile   = "profile.html"
	TemplateAdmin     = "admin.html"
)

const defaultSiteTitle = "BamaBass Tracker"

// PageService is the read side of Service used by the controller.
type PageService interface {
	Dashboard(ctx context.Context) (DashboardView, error)
	Directory(ctx context.Context) ([]FishSummary, error)
	Profile(ctx context.Context, id int) (ProfileView, error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  PageService
	Renderer Renderer
	Title    string
	APIURL   string
	Nav      []NavItem
	Now      func() time.Time
}

// AdminState is the outcome of an admin form submission.
type AdminState struct {
	Message string
	Error   string
}

// Controller renders the dashboard pages inside the navigation shell.
// Upstream failures never fail a render: they become an inline error.
type Controller struct {
	service  PageService
	renderer Renderer
	title    string
	apiURL   string
	nav      []NavItem
	now      func() time.Time
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	c := &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		title:    opts.Title,
		apiURL:   opts.APIURL,
		nav:      opts.Nav,
		now:      opts.Now,
	}
	if c.title == "" {
		c.title = defaultSiteTitle
	}
	if len(c.nav) == 0 {
		c.nav = DefaultNavItems()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// RenderDashboard renders the aggregate charts page.
func (c *Controller) RenderDashboard(ctx context.Context, out io.Writer) error {
	data := map[string]any{}
	view, err := c.service.Dashboard(ctx)
	if err != nil {
		data["error"] = DisplayMessage(err, c.apiURL)
	} else {
		data["charts"] = chartPanels(view.Charts)
		data["fish_count"] = strconv.Itoa(view.FishCount)
	}
	return c.renderPage(ctx, "/", TemplateDashboard, c.title+" Insights", data, out)
}

// RenderDirectory renders one card per fish.
func (c *Controller) RenderDirectory(ctx context.Context, out io.Writer) error {
	data := map[string]any{}
	cards, err := c.service.Directory(ctx)
	if err != nil {
		data["error"] = DisplayMessage(err, c.apiURL)
	} else {
		items := make([]map[string]any, len(cards))
		for i, card := range cards {
			items[i] = summaryMap(card)
		}
		data["fish"] = items
	}
	return c.renderPage(ctx, "/fish", TemplateDirectory, "Meet the Fish", data, out)
}

// RenderProfile renders the profile of a single fish.
func (c *Controller) RenderProfile(ctx context.Context, id int, out io.Writer) error {
	path := fmt.Sprintf("/fish/%d", id)
	data := map[string]any{"fish_id": strconv.Itoa(id)}
	view, err := c.service.Profile(ctx, id)
	switch {
	case errors.Is(err, ErrFishNotFound):
		data["not_found"] = true
		data["error"] = DisplayMessage(err, c.apiURL)
		return c.renderPage(ctx, path, TemplateProfile, "Fish not found", data, out)
	case err != nil:
		data["error"] = DisplayMessage(err, c.apiURL)
		return c.renderPage(ctx, path, TemplateProfile, "Fish", data, out)
	}
	data["fish"] = summaryMap(view.Summary)
	data["chart"] = chartPanel(view.Chart)
	weighIns := make([]map[string]any, len(view.WeighIns))
	for i, w := range view.WeighIns {
		weighIns[i] = map[string]any{
			"date":     w.Date,
			"weight":   w.Weight,
			"length":   w.Length,
			"girth":    w.Girth,
			"location": w.Location,
			"bait":     w.Bait,
		}
	}
	data["weigh_ins"] = weighIns
	return c.renderPage(ctx, path, TemplateProfile, view.Summary.Name, data, out)
}

// RenderInvalidProfile renders the profile page for an id that is not a number.
func (c *Controller) RenderInvalidProfile(ctx context.Context, raw string, out io.Writer) error {
	data := map[string]any{
		"not_found": true,
		"error":     fmt.Sprintf("%q is not a valid fish id.", raw),
	}
	return c.renderPage(ctx, "/fish/"+raw, TemplateProfile, "Fish not found", data, out)
}

// RenderAdmin renders the admin forms with the outcome of the last submission.
func (c *Controller) RenderAdmin(ctx context.Context, state AdminState, out io.Writer) error {
	data := map[string]any{
		"message": state.Message,
		"error":   state.Error,
	}
	return c.renderPage(ctx, "/admin", TemplateAdmin, "Admin Panel", data, out)
}

func (c *Controller) renderPage(_ context.Context, path, page, pageTitle string, data map[string]any, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("tracker: renderer not configured")
	}
	data["page_title"] = pageTitle
	content, err := c.renderer.Render(page, data)
	if err != nil {
		return fmt.Errorf("tracker: render %s: %w", page, err)
	}
	nav := ActiveNav(c.nav, path)
	navItems := make([]map[string]any, len(nav))
	for i, item := range nav {
		navItems[i] = map[string]any{
			"label":  item.Label,
			"route":  item.Route,
			"active": item.Active,
		}
	}
	layout := map[string]any{
		"title":      c.title,
		"page_title": pageTitle,
		"nav":        navItems,
		"content":    content,
		"api_url":    c.apiURL,
		"year":       strconv.Itoa(c.now().Year()),
	}
	if _, err := c.renderer.Render(TemplateLayout, layout, out); err != nil {
		return fmt.Errorf("tracker: render %s: %w", TemplateLayout, err)
	}
	return nil
}

func chartPanels(panels []ChartPanel) []map[string]any {
	out := make([]map[string]any, len(panels))
	for i, p := range panels {
		out[i] = chartPanel(p)
	}
	return out
}

func chartPanel(p ChartPanel) map[string]any {
	return map[string]any{
		"key":   p.Key,
		"title": p.Title,
		"html":  p.HTML,
		"empty": p.Empty,
	}
}

// summaryMap formats numbers up front; the template engine prints Go ints as
// floats, which would break the /fish/{id} links.
func summaryMap(s FishSummary) map[string]any {
	return map[string]any{
		"id":                strconv.Itoa(s.ID),
		"name":              s.Name,
		"notes":             s.Notes,
		"max_weight":        formatNumber(s.MaxWeight),
		"total_weigh_ins":   strconv.Itoa(s.TotalWeighIns),
		"favorite_bait":     s.FavoriteBait,
		"favorite_location": s.FavoriteLocation,
	}
}
