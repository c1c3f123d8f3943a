package fishapi

import (
	"context"
	"sync"

	"github.com/goliatone/go-fishboard/components/tracker"
)

// MockData seeds deterministic fish API responses for tests or local demos.
type MockData struct {
	Fish      []tracker.Fish
	FetchErr  error
	AdminErr  error
	AddStatus string
	CSVStatus string
}

// MockClient implements Client using in-memory fixtures. Admin writes are
// recorded; added fish are appended to the fixture list.
type MockClient struct {
	data     MockData
	mu       sync.RWMutex
	added    []tracker.AddFishInput
	uploaded []tracker.UploadWeighInsInput
}

// NewMockClient builds a mock fish API client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// FetchFish returns a copy of the configured fish.
func (c *MockClient) FetchFish(context.Context) ([]tracker.Fish, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.FetchErr != nil {
		return nil, c.data.FetchErr
	}
	return cloneFish(c.data.Fish), nil
}

// AddFish records the input and appends a fish with the next free id.
func (c *MockClient) AddFish(_ context.Context, input tracker.AddFishInput) (tracker.AdminResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data.AdminErr != nil {
		return tracker.AdminResult{}, c.data.AdminErr
	}
	c.added = append(c.added, input)
	next := 1
	for _, f := range c.data.Fish {
		if f.ID >= next {
			next = f.ID + 1
		}
	}
	c.data.Fish = append(c.data.Fish, tracker.Fish{ID: next, Name: input.Name, Notes: input.Notes})
	status := c.data.AddStatus
	if status == "" {
		status = "Fish added"
	}
	return tracker.AdminResult{Message: status}, nil
}

// UploadWeighIns records the upload without parsing it.
func (c *MockClient) UploadWeighIns(_ context.Context, input tracker.UploadWeighInsInput) (tracker.AdminResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data.AdminErr != nil {
		return tracker.AdminResult{}, c.data.AdminErr
	}
	input.Content = append([]byte(nil), input.Content...)
	c.uploaded = append(c.uploaded, input)
	status := c.data.CSVStatus
	if status == "" {
		status = "CSV uploaded"
	}
	return tracker.AdminResult{Message: status}, nil
}

// Added returns the recorded add-fish inputs.
func (c *MockClient) Added() []tracker.AddFishInput {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]tracker.AddFishInput(nil), c.added...)
}

// Uploaded returns the recorded uploads.
func (c *MockClient) Uploaded() []tracker.UploadWeighInsInput {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]tracker.UploadWeighInsInput(nil), c.uploaded...)
}

func cloneFish(fish []tracker.Fish) []tracker.Fish {
	out := make([]tracker.Fish, len(fish))
	for i, f := range fish {
		out[i] = f
		out[i].WeighIns = append([]tracker.WeighIn(nil), f.WeighIns...)
	}
	return out
}
