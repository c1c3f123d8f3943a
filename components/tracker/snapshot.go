package tracker

import (
	"context"
	"sync"
	"time"
)

// SnapshotSource wraps a FishSource with an optional TTL cache. Every fetch
// is numbered; a result is stored only when no newer fetch has already
// completed, so a slow stale response never replaces fresher data.
type SnapshotSource struct {
	source FishSource
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	issued    uint64
	stored    uint64
	floor     uint64
	fish      []Fish
	fetchedAt time.Time
}

// NewSnapshotSource wraps source. With ttl <= 0 every call goes upstream but
// the generation guard still applies to Latest.
func NewSnapshotSource(source FishSource, ttl time.Duration) *SnapshotSource {
	return &SnapshotSource{source: source, ttl: ttl, now: time.Now}
}

// FetchFish returns the cached snapshot while fresh, otherwise refreshes it.
func (s *SnapshotSource) FetchFish(ctx context.Context) ([]Fish, error) {
	if fish, ok := s.fresh(); ok {
		return fish, nil
	}
	return s.Refresh(ctx)
}

// Refresh always fetches upstream. It returns the result of its own fetch
// even when a newer one has already been stored.
func (s *SnapshotSource) Refresh(ctx context.Context) ([]Fish, error) {
	if s.source == nil {
		return nil, ErrMissingSource
	}
	s.mu.Lock()
	s.issued++
	generation := s.issued
	s.mu.Unlock()

	fish, err := s.source.FetchFish(ctx)
	if err != nil {
		return nil, err
	}
	s.store(generation, fish)
	return cloneFish(fish), nil
}

// Latest returns the newest stored snapshot and its generation.
func (s *SnapshotSource) Latest() ([]Fish, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored == 0 {
		return nil, 0, false
	}
	return cloneFish(s.fish), s.stored, true
}

// Invalidate drops the cached snapshot so the next read goes upstream.
// Fetches already in flight may predate the write and are never stored.
func (s *SnapshotSource) Invalidate() {
	s.mu.Lock()
	s.floor = s.issued
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

func (s *SnapshotSource) store(generation uint64, fish []Fish) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation <= s.stored || generation <= s.floor {
		return false
	}
	s.stored = generation
	s.fish = cloneFish(fish)
	s.fetchedAt = s.now()
	return true
}

func (s *SnapshotSource) fresh() ([]Fish, bool) {
	if s.ttl <= 0 {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored == 0 || s.fetchedAt.IsZero() || s.now().Sub(s.fetchedAt) > s.ttl {
		return nil, false
	}
	return cloneFish(s.fish), true
}

func cloneFish(fish []Fish) []Fish {
	if fish == nil {
		return nil
	}
	out := make([]Fish, len(fish))
	for i, f := range fish {
		out[i] = f
		out[i].WeighIns = append([]WeighIn(nil), f.WeighIns...)
	}
	return out
}
