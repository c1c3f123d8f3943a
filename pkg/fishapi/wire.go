package fishapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-fishboard/components/tracker"
)

type fishRecord struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Notes    string          `json:"notes"`
	WeighIns []weighInRecord `json:"weigh_ins"`
}

type weighInRecord struct {
	Date     wireDate `json:"date"`
	Weight   *float64 `json:"weight"`
	Length   *float64 `json:"length"`
	Girth    *float64 `json:"girth"`
	Location string   `json:"location"`
	Bait     string   `json:"bait"`
}

// invalidDates lists the weigh-in date strings that matched no known layout.
func (r fishRecord) invalidDates() []string {
	var out []string
	for _, w := range r.WeighIns {
		if w.Date.invalid != "" {
			out = append(out, w.Date.invalid)
		}
	}
	return out
}

func (r fishRecord) toFish() tracker.Fish {
	fish := tracker.Fish{
		ID:       r.ID,
		Name:     r.Name,
		Notes:    r.Notes,
		WeighIns: make([]tracker.WeighIn, len(r.WeighIns)),
	}
	for i, w := range r.WeighIns {
		fish.WeighIns[i] = w.toWeighIn()
	}
	return fish
}

func (r weighInRecord) toWeighIn() tracker.WeighIn {
	var weight float64
	if r.Weight != nil {
		weight = *r.Weight
	}
	return tracker.WeighIn{
		Date:     r.Date.time,
		Weight:   weight,
		Length:   r.Length,
		Girth:    r.Girth,
		Location: strings.TrimSpace(r.Location),
		Bait:     strings.TrimSpace(r.Bait),
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// wireDate accepts the date layouts the API is known to emit. Anything else
// decodes to the zero time and keeps the raw text in invalid, so one bad row
// does not fail the whole fish list.
type wireDate struct {
	time    time.Time
	invalid string
}

func (d *wireDate) UnmarshalJSON(data []byte) error {
	*d = wireDate{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		d.invalid = string(data)
		return nil
	}
	parsed, err := parseDate(raw)
	if err != nil {
		d.invalid = raw
		return nil
	}
	d.time = parsed
	return nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("fishapi: unrecognized date %q", raw)
}

type adminResponse struct {
	Status json.RawMessage `json:"status"`
	Detail json.RawMessage `json:"detail"`
}

// message prefers status over detail.
func (r adminResponse) message() string {
	if msg := rawMessage(r.Status); msg != "" {
		return msg
	}
	return rawMessage(r.Detail)
}

// rawMessage returns JSON strings unquoted and any other value as raw JSON.
func rawMessage(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}
