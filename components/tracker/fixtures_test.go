package tracker

import (
	"context"
	"sync"
	"testing"
	"time"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func ptr(v float64) *float64 { return &v }

func sampleFish(t *testing.T) []Fish {
	return []Fish{
		{
			ID:    1,
			Name:  "Big Bertha",
			Notes: "Lives under the dock.",
			WeighIns: []WeighIn{
				{Date: day(t, "2024-06-01"), Weight: 3, Location: "Dock", Bait: "Worm"},
				{Date: day(t, "2024-05-01"), Weight: 5, Length: ptr(18.5), Location: "Dock", Bait: "Worm"},
				{Date: day(t, "2024-07-01"), Weight: 1, Location: "Cove", Bait: "Jig"},
			},
		},
		{
			ID:   2,
			Name: "Lefty",
			WeighIns: []WeighIn{
				{Date: day(t, "2024-04-10"), Weight: 2.5, Location: "Cove", Bait: "Spinner"},
			},
		},
		{ID: 3, Name: "Newcomer"},
	}
}

type fakeSource struct {
	mu    sync.Mutex
	fish  []Fish
	err   error
	calls int
}

func (f *fakeSource) FetchFish(context.Context) ([]Fish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return cloneFish(f.fish), nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeWriter struct {
	added    []AddFishInput
	uploaded []UploadWeighInsInput
	result   AdminResult
	err      error
}

func (w *fakeWriter) AddFish(_ context.Context, input AddFishInput) (AdminResult, error) {
	w.added = append(w.added, input)
	return w.result, w.err
}

func (w *fakeWriter) UploadWeighIns(_ context.Context, input UploadWeighInsInput) (AdminResult, error) {
	w.uploaded = append(w.uploaded, input)
	return w.result, w.err
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}
