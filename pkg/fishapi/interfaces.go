package fishapi

import (
	"github.com/goliatone/go-fishboard/components/tracker"
)

// Client is the union of the read and admin sides of the fish API.
type Client interface {
	tracker.FishSource
	tracker.AdminWriter
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
