package tracker

import "strings"

// NavItem is a link in the navigation shell.
type NavItem struct {
	Label  string `json:"label"`
	Route  string `json:"route"`
	Active bool   `json:"active"`
}

// DefaultNavItems lists the pages linked from the header.
func DefaultNavItems() []NavItem {
	return []NavItem{
		{Label: "Dashboard", Route: "/"},
		{Label: "Fish", Route: "/fish"},
		{Label: "Admin", Route: "/admin"},
	}
}

// ActiveNav marks the item whose route owns the current path. The root route
// only matches itself; other routes also match their sub paths.
func ActiveNav(items []NavItem, path string) []NavItem {
	out := make([]NavItem, len(items))
	if path == "" {
		path = "/"
	}
	for i, item := range items {
		out[i] = item
		switch {
		case item.Route == "/":
			out[i].Active = path == "/"
		default:
			out[i].Active = path == item.Route || strings.HasPrefix(path, strings.TrimSuffix(item.Route, "/")+"/")
		}
	}
	return out
}
