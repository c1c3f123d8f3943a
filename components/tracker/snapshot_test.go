package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSource answers call n with responses[n] once gates[n] is closed.
type gatedSource struct {
	mu        sync.Mutex
	calls     int
	gates     []chan struct{}
	responses [][]Fish
	started   chan int
}

func (g *gatedSource) FetchFish(ctx context.Context) ([]Fish, error) {
	g.mu.Lock()
	n := g.calls
	g.calls++
	g.mu.Unlock()
	g.started <- n
	select {
	case <-g.gates[n]:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.responses[n], nil
}

func TestSnapshotSourceIgnoresStaleResponse(t *testing.T) {
	src := &gatedSource{
		gates:     []chan struct{}{make(chan struct{}), make(chan struct{})},
		responses: [][]Fish{{{ID: 1, Name: "stale"}}, {{ID: 1, Name: "fresh"}}},
		started:   make(chan int, 2),
	}
	snapshot := NewSnapshotSource(src, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	var slow []Fish
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow, _ = snapshot.Refresh(ctx)
	}()
	<-src.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = snapshot.Refresh(ctx)
	}()
	<-src.started

	close(src.gates[1])
	require.Eventually(t, func() bool {
		_, gen, ok := snapshot.Latest()
		return ok && gen == 2
	}, time.Second, time.Millisecond)

	close(src.gates[0])
	wg.Wait()

	assert.Equal(t, "stale", slow[0].Name, "each caller still gets its own response")
	latest, gen, ok := snapshot.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(2), gen)
	assert.Equal(t, "fresh", latest[0].Name)
}

func TestSnapshotSourceServesFreshCache(t *testing.T) {
	src := &fakeSource{fish: []Fish{{ID: 1, Name: "a"}}}
	snapshot := NewSnapshotSource(src, time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := snapshot.FetchFish(ctx)
	require.NoError(t, err)
	_, err = snapshot.FetchFish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.Calls())

	now = now.Add(2 * time.Minute)
	_, err = snapshot.FetchFish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Calls())

	snapshot.Invalidate()
	_, err = snapshot.FetchFish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, src.Calls())
}

func TestSnapshotSourceWithoutTTLAlwaysFetches(t *testing.T) {
	src := &fakeSource{fish: []Fish{{ID: 1}}}
	snapshot := NewSnapshotSource(src, 0)
	for i := 0; i < 3; i++ {
		_, err := snapshot.FetchFish(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, src.Calls())
}

func TestSnapshotSourceKeepsSnapshotOnError(t *testing.T) {
	src := &fakeSource{fish: []Fish{{ID: 1, Name: "kept"}}}
	snapshot := NewSnapshotSource(src, 0)
	_, err := snapshot.FetchFish(context.Background())
	require.NoError(t, err)

	src.err = errors.New("down")
	_, err = snapshot.FetchFish(context.Background())
	require.Error(t, err)

	latest, _, ok := snapshot.Latest()
	require.True(t, ok)
	assert.Equal(t, "kept", latest[0].Name)
}

func TestSnapshotSourceReturnsCopies(t *testing.T) {
	src := &fakeSource{fish: []Fish{{ID: 1, WeighIns: []WeighIn{{Weight: 1}}}}}
	snapshot := NewSnapshotSource(src, time.Minute)
	first, err := snapshot.FetchFish(context.Background())
	require.NoError(t, err)
	first[0].WeighIns[0].Weight = 99

	second, err := snapshot.FetchFish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, second[0].WeighIns[0].Weight)
}

func TestSnapshotSourceMissingSource(t *testing.T) {
	_, err := NewSnapshotSource(nil, 0).FetchFish(context.Background())
	assert.ErrorIs(t, err, ErrMissingSource)
}

func TestSnapshotSourceInvalidateDropsInFlightFetch(t *testing.T) {
	src := &gatedSource{
		gates:     []chan struct{}{make(chan struct{}), make(chan struct{})},
		responses: [][]Fish{{{ID: 1, Name: "before-write"}}, {{ID: 1, Name: "after-write"}}},
		started:   make(chan int, 2),
	}
	close(src.gates[1])
	snapshot := NewSnapshotSource(src, time.Hour)
	ctx := context.Background()

	done := make(chan []Fish, 1)
	go func() {
		fish, _ := snapshot.FetchFish(ctx)
		done <- fish
	}()
	<-src.started

	snapshot.Invalidate()
	close(src.gates[0])
	assert.Equal(t, "before-write", (<-done)[0].Name)

	_, _, ok := snapshot.Latest()
	assert.False(t, ok, "a fetch issued before Invalidate must not be stored")

	fish, err := snapshot.FetchFish(ctx)
	require.NoError(t, err)
	<-src.started
	assert.Equal(t, "after-write", fish[0].Name)

	cached, err := snapshot.FetchFish(ctx)
	require.NoError(t, err)
	assert.Equal(t, "after-write", cached[0].Name)
	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, 2, src.calls)
}
