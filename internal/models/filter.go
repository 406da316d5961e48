package models

// FilterAll is the sentinel that disables a filter
const FilterAll = "all"

// FilterState holds the dashboard filters. Each field is FilterAll or an exact value.
type FilterState struct {
	Busyness string `form:"busyness" json:"busyness"`
	Noise    string `form:"noise" json:"noise"`
	Power    string `form:"power" json:"power"`
	Food     string `form:"food" json:"food"`
	Lighting string `form:"lighting" json:"lighting"`
}

// DefaultFilterState returns all filters set to FilterAll
func DefaultFilterState() FilterState {
	return FilterState{
		Busyness: FilterAll,
		Noise:    FilterAll,
		Power:    FilterAll,
		Food:     FilterAll,
		Lighting: FilterAll,
	}
}

// Normalize replaces empty fields with FilterAll
func (f FilterState) Normalize() FilterState {
	norm := func(v string) string {
		if v == "" {
			return FilterAll
		}
		return v
	}
	return FilterState{
		Busyness: norm(f.Busyness),
		Noise:    norm(f.Noise),
		Power:    norm(f.Power),
		Food:     norm(f.Food),
		Lighting: norm(f.Lighting),
	}
}

// IsDefault reports whether no filter is active
func (f FilterState) IsDefault() bool {
	return f.Normalize() == DefaultFilterState()
}

// SortKey selects the dashboard ordering
type SortKey string

// Sort keys
const (
	SortName         SortKey = "name"
	SortBusynessAsc  SortKey = "busyness-asc"
	SortBusynessDesc SortKey = "busyness-desc"
	SortNoiseAsc     SortKey = "noise-asc"
	SortNoiseDesc    SortKey = "noise-desc"
)

// DefaultSortKey is used when none, or an unknown one, is given
const DefaultSortKey = SortName

// SortKeys lists every key with its label, in menu order
var SortKeys = []struct {
	Key   SortKey
	Label string
}{
	{SortName, "Name (A-Z)"},
	{SortBusynessAsc, "Least Busy First"},
	{SortBusynessDesc, "Most Busy First"},
	{SortNoiseAsc, "Noise Level (A-Z)"},
	{SortNoiseDesc, "Noise Level (Z-A)"},
}

// ParseSortKey returns the matching key or DefaultSortKey
func ParseSortKey(raw string) SortKey {
	for _, k := range SortKeys {
		if string(k.Key) == raw {
			return k.Key
		}
	}
	return DefaultSortKey
}
