package tracker

import (
	"context"
	"time"
)

// FishSource reads every tracked fish together with its weigh-in history.
// Implementations make no ordering promise for fish or weigh-ins.
type FishSource interface {
	FetchFish(ctx context.Context) ([]Fish, error)
}

// AdminWriter forwards administrative writes to the remote fish API.
type AdminWriter interface {
	AddFish(ctx context.Context, input AddFishInput) (AdminResult, error)
	UploadWeighIns(ctx context.Context, input UploadWeighInsInput) (AdminResult, error)
}

// Fish is a tracked fish record.
type Fish struct {
	ID       int
	Name     string
	Notes    string
	WeighIns []WeighIn
}

// WeighIn is a single weigh-in belonging to a fish. Optional measurements are
// nil when absent; empty labels mean the label was not recorded.
type WeighIn struct {
	Date     time.Time
	Weight   float64
	Length   *float64
	Girth    *float64
	Location string
	Bait     string
}

// AddFishInput carries the form fields for creating a fish upstream.
type AddFishInput struct {
	Name     string `json:"name"`
	Notes    string `json:"notes"`
	Password string `json:"password"`
}

// UploadWeighInsInput carries a CSV file of weigh-in rows
// (fish_id, date, weight, length, girth, location, bait).
type UploadWeighInsInput struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
	Password string `json:"password"`
}

// AdminResult is the message returned by a successful admin write.
type AdminResult struct {
	Message string `json:"message"`
}

// LabelField selects which optional weigh-in label is counted.
type LabelField string

const (
	LabelLocation LabelField = "location"
	LabelBait     LabelField = "bait"
)

// Label returns the value of the selected label field.
func (w WeighIn) Label(field LabelField) string {
	switch field {
	case LabelLocation:
		return w.Location
	case LabelBait:
		return w.Bait
	default:
		return ""
	}
}
