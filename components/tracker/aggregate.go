package tracker

import (
	"sort"
	"time"
)

// DefaultTopN is the size of the heaviest-fish leaderboard.
const DefaultTopN = 5

// HistoryDateLayout formats weigh-in dates on chart axes and cards.
const HistoryDateLayout = "1/2/2006"

// InvalidDateLabel stands in for weigh-ins whose date could not be read.
const InvalidDateLabel = "Invalid Date"

// FormatDate formats a weigh-in date, or InvalidDateLabel for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return InvalidDateLabel
	}
	return t.Format(HistoryDateLayout)
}

// WeightRank pairs a fish with its heaviest recorded weight.
type WeightRank struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// LabelCount is the number of weigh-ins recorded with a label.
type LabelCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// HistoryPoint is a single (date, weight) pair of a fish's weight history.
type HistoryPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// FishSummary is the directory card for a fish.
type FishSummary struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Notes            string  `json:"notes,omitempty"`
	MaxWeight        float64 `json:"max_weight"`
	TotalWeighIns    int     `json:"total_weigh_ins"`
	FavoriteBait     string  `json:"favorite_bait,omitempty"`
	FavoriteLocation string  `json:"favorite_location,omitempty"`
}

// MaxWeight returns the heaviest weigh-in of the fish. A fish without
// weigh-ins weighs 0.
func MaxWeight(fish Fish) float64 {
	if len(fish.WeighIns) == 0 {
		return 0
	}
	heaviest := fish.WeighIns[0].Weight
	for _, w := range fish.WeighIns[1:] {
		if w.Weight > heaviest {
			heaviest = w.Weight
		}
	}
	return heaviest
}

// TopWeights ranks fish by their heaviest weigh-in, descending, and keeps the
// first n. Fish without weigh-ins are not ranked. Ties keep source order.
func TopWeights(fish []Fish, n int) []WeightRank {
	if n <= 0 {
		n = DefaultTopN
	}
	ranks := make([]WeightRank, 0, len(fish))
	for _, f := range fish {
		if len(f.WeighIns) == 0 {
			continue
		}
		ranks = append(ranks, WeightRank{ID: f.ID, Name: f.Name, Weight: MaxWeight(f)})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Weight > ranks[j].Weight
	})
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// LabelCounts counts the weigh-ins of every fish by the selected label,
// skipping weigh-ins without one. Counts come back in first-seen order.
func LabelCounts(fish []Fish, field LabelField) []LabelCount {
	var values []string
	for _, f := range fish {
		for _, w := range f.WeighIns {
			values = append(values, w.Label(field))
		}
	}
	return countValues(values)
}

// SortByCount orders counts descending. Equal counts keep their order.
func SortByCount(counts []LabelCount) []LabelCount {
	out := append([]LabelCount(nil), counts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// FavoriteLabel returns the most frequent non-empty value. On ties the value
// that was counted first wins. ok is false when every value is empty.
func FavoriteLabel(values []string) (string, bool) {
	counts := SortByCount(countValues(values))
	if len(counts) == 0 {
		return "", false
	}
	return counts[0].Name, true
}

// WeightHistory sorts the fish's weigh-ins by date and projects them to
// chart points. Every weigh-in produces exactly one point.
func WeightHistory(fish Fish) []HistoryPoint {
	sorted := SortedWeighIns(fish)
	points := make([]HistoryPoint, len(sorted))
	for i, w := range sorted {
		points[i] = HistoryPoint{
			Date:   FormatDate(w.Date),
			Weight: w.Weight,
		}
	}
	return points
}

// SortedWeighIns returns a copy of the weigh-ins in ascending date order.
func SortedWeighIns(fish Fish) []WeighIn {
	out := append([]WeighIn(nil), fish.WeighIns...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Summarize builds the directory card for a fish.
func Summarize(fish Fish) FishSummary {
	baits := make([]string, len(fish.WeighIns))
	locations := make([]string, len(fish.WeighIns))
	for i, w := range fish.WeighIns {
		baits[i] = w.Bait
		locations[i] = w.Location
	}
	bait, _ := FavoriteLabel(baits)
	location, _ := FavoriteLabel(locations)
	return FishSummary{
		ID:               fish.ID,
		Name:             fish.Name,
		Notes:            fish.Notes,
		MaxWeight:        MaxWeight(fish),
		TotalWeighIns:    len(fish.WeighIns),
		FavoriteBait:     bait,
		FavoriteLocation: location,
	}
}

// FindFish looks a fish up by its identifier.
func FindFish(fish []Fish, id int) (Fish, bool) {
	for _, f := range fish {
		if f.ID == id {
			return f, true
		}
	}
	return Fish{}, false
}

func countValues(values []string) []LabelCount {
	index := make(map[string]int, len(values))
	var counts []LabelCount
	for _, v := range values {
		if v == "" {
			continue
		}
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, LabelCount{Name: v, Count: 1})
	}
	return counts
}
