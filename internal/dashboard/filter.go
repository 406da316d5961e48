// Package dashboard partitions, filters and sorts study spots for the dashboard view.
package dashboard

import (
	"sort"
	"strings"

	"spotfinder/internal/models"
)

// Partition splits all into the recommended spots and the rest.
//
// The recommended list follows the recommendation order, keeps only ids present in all,
// and carries the recommendation's match score. remaining is all minus those ids in
// its original order. The two lists are disjoint and together hold every spot of all.
func Partition(all, recommended []models.StudySpot) (rec, remaining []models.StudySpot) {
	byID := make(map[int]int, len(all))
	for i, spot := range all {
		if _, dup := byID[spot.ID]; !dup {
			byID[spot.ID] = i
		}
	}

	picked := make(map[int]bool, len(recommended))
	rec = make([]models.StudySpot, 0, len(recommended))
	for _, r := range recommended {
		idx, ok := byID[r.ID]
		if !ok || picked[r.ID] {
			continue
		}
		picked[r.ID] = true
		spot := all[idx]
		if r.MatchScore != nil {
			score := *r.MatchScore
			spot.MatchScore = &score
		}
		rec = append(rec, spot)
	}

	remaining = make([]models.StudySpot, 0, len(all)-len(rec))
	for _, spot := range all {
		if !picked[spot.ID] {
			remaining = append(remaining, spot)
		}
	}
	return rec, remaining
}

// ApplyFiltersAndSort returns the spots matching filters, ordered by key. The input is not modified.
//
// The busyness filter compares numerically and never matches a spot without an estimate;
// the other filters compare strings exactly. FilterAll disables a filter. Sorting is stable:
// name and noise sort lexicographically with "" for missing values, busyness numerically with 0.
func ApplyFiltersAndSort(spots []models.StudySpot, filters models.FilterState, key models.SortKey) []models.StudySpot {
	filters = filters.Normalize()

	out := make([]models.StudySpot, 0, len(spots))
	for _, spot := range spots {
		if matches(spot, filters) {
			out = append(out, spot)
		}
	}

	if less := lessFunc(key); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func matches(spot models.StudySpot, f models.FilterState) bool {
	if f.Busyness != models.FilterAll {
		if spot.BusynessEstimate == nil {
			return false
		}
		want, err := models.ParseBusyness(f.Busyness)
		if err != nil || *spot.BusynessEstimate != want {
			return false
		}
	}
	return exact(f.Noise, spot.NoiseLevel) &&
		exact(f.Power, spot.PowerOptions) &&
		exact(f.Food, spot.NearbyFoodDrinkOptions) &&
		exact(f.Lighting, spot.NaturalLighting)
}

func exact(filter, value string) bool {
	return filter == models.FilterAll || filter == value
}

func lessFunc(key models.SortKey) func(a, b models.StudySpot) bool {
	switch models.ParseSortKey(string(key)) {
	case models.SortBusynessAsc:
		return func(a, b models.StudySpot) bool { return a.BusynessValue() < b.BusynessValue() }
	case models.SortBusynessDesc:
		return func(a, b models.StudySpot) bool { return a.BusynessValue() > b.BusynessValue() }
	case models.SortNoiseAsc:
		return func(a, b models.StudySpot) bool { return strings.Compare(a.NoiseLevel, b.NoiseLevel) < 0 }
	case models.SortNoiseDesc:
		return func(a, b models.StudySpot) bool { return strings.Compare(a.NoiseLevel, b.NoiseLevel) > 0 }
	default:
		return func(a, b models.StudySpot) bool { return strings.Compare(a.Location, b.Location) < 0 }
	}
}

// FilterOptions are the values offered by the filter menus
type FilterOptions struct {
	Busyness []int
	Noise    []string
	Power    []string
	Food     []string
	Lighting []string
}

// Options collects distinct non-empty values per filterable field in first-seen order.
// Busyness values are sorted ascending.
func Options(spots []models.StudySpot) FilterOptions {
	var opts FilterOptions
	seenBusy := map[int]bool{}
	seen := map[string]map[string]bool{"noise": {}, "power": {}, "food": {}, "lighting": {}}
	add := func(kind, value string, list *[]string) {
		if value == "" || seen[kind][value] {
			return
		}
		seen[kind][value] = true
		*list = append(*list, value)
	}

	for _, spot := range spots {
		if spot.BusynessEstimate != nil && !seenBusy[spot.BusynessValue()] {
			seenBusy[spot.BusynessValue()] = true
			opts.Busyness = append(opts.Busyness, spot.BusynessValue())
		}
		add("noise", spot.NoiseLevel, &opts.Noise)
		add("power", spot.PowerOptions, &opts.Power)
		add("food", spot.NearbyFoodDrinkOptions, &opts.Food)
		add("lighting", spot.NaturalLighting, &opts.Lighting)
	}
	sort.Ints(opts.Busyness)
	return opts
}
