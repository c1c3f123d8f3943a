package fishboard

import (
	"time"

	core "github.com/goliatone/go-fishboard/components/tracker"
	"github.com/goliatone/go-fishboard/pkg/fishapi"
)

// Service exposes the underlying components/tracker.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Fish re-export for callers building their own FishSource.
type Fish = core.Fish

// WeighIn re-export for callers building their own FishSource.
type WeighIn = core.WeighIn

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewRemoteService builds a Service that reads from and writes to the fish
// API at baseURL, caching the fish list for ttl.
func NewRemoteService(baseURL string, ttl time.Duration, opts Options) (*Service, error) {
	client, err := fishapi.NewHTTPClient(fishapi.HTTPConfig{BaseURL: baseURL})
	if err != nil {
		return nil, err
	}
	opts.Source = core.NewSnapshotSource(client, ttl)
	opts.Writer = client
	return core.NewService(opts), nil
}
