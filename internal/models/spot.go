// Package models defines the data structures shared by the study spot finder's web and terminal clients.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultSpotName is shown for a spot whose location is empty
const DefaultSpotName = "Study Spot"

// Power option codes used by the backend
const (
	PowerYes     = "Y"
	PowerNo      = "N"
	PowerLimited = "Limited"
)

// StudySpot is a physical study location as served by the backend. It is read-only to this client.
type StudySpot struct {
	ID                     int       `json:"id" yaml:"id"`
	Location               string    `json:"location" yaml:"location"`
	Latitude               *float64  `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude              *float64  `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	BusynessEstimate       *Busyness `json:"busyness_estimate,omitempty" yaml:"busyness_estimate,omitempty"`
	NoiseLevel             string    `json:"noise_level,omitempty" yaml:"noise_level,omitempty"`
	PowerOptions           string    `json:"power_options,omitempty" yaml:"power_options,omitempty"`
	NearbyFoodDrinkOptions string    `json:"nearby_food_drink_options,omitempty" yaml:"nearby_food_drink_options,omitempty"`
	NaturalLighting        string    `json:"natural_lighting,omitempty" yaml:"natural_lighting,omitempty"`
	// MatchScore is attached by the recommendation service. It is displayed, never interpreted.
	MatchScore *int `json:"match_score,omitempty" yaml:"match_score,omitempty"`
	// UnreadableBusyness keeps a busyness_estimate that was not a number; BusynessEstimate is nil then.
	UnreadableBusyness string `json:"-" yaml:"-"`
}

// UnmarshalJSON decodes a spot. A busyness_estimate that is not a number or numeric string
// leaves the estimate absent instead of failing the spot, so one bad record never sinks a list.
func (s *StudySpot) UnmarshalJSON(data []byte) error {
	type plainSpot StudySpot
	aux := struct {
		*plainSpot
		BusynessEstimate json.RawMessage `json:"busyness_estimate"`
	}{plainSpot: (*plainSpot)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.BusynessEstimate = nil
	s.UnreadableBusyness = ""
	raw := bytes.TrimSpace(aux.BusynessEstimate)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var b Busyness
	if err := b.UnmarshalJSON(raw); err != nil {
		s.UnreadableBusyness = string(raw)
		return nil
	}
	s.BusynessEstimate = &b
	return nil
}

// HasCoordinates reports whether both latitude and longitude are present
func (s StudySpot) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// DisplayName returns the location, or DefaultSpotName when it is empty
func (s StudySpot) DisplayName() string {
	if strings.TrimSpace(s.Location) == "" {
		return DefaultSpotName
	}
	return s.Location
}

// BusynessValue returns the busyness estimate, or 0 when absent
func (s StudySpot) BusynessValue() int {
	if s.BusynessEstimate == nil {
		return 0
	}
	return s.BusynessEstimate.Int()
}

// BusynessLabel renders the estimate as "n/5", or "N/A" when absent
func (s StudySpot) BusynessLabel() string {
	if s.BusynessEstimate == nil {
		return "N/A"
	}
	return s.BusynessEstimate.String()
}

// SpotPatch carries the fields of a partial update; nil fields are left untouched by the backend.
type SpotPatch struct {
	Location               *string   `json:"location,omitempty" yaml:"location,omitempty"`
	Latitude               *float64  `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude              *float64  `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	BusynessEstimate       *Busyness `json:"busyness_estimate,omitempty" yaml:"busyness_estimate,omitempty"`
	NoiseLevel             *string   `json:"noise_level,omitempty" yaml:"noise_level,omitempty"`
	PowerOptions           *string   `json:"power_options,omitempty" yaml:"power_options,omitempty"`
	NearbyFoodDrinkOptions *string   `json:"nearby_food_drink_options,omitempty" yaml:"nearby_food_drink_options,omitempty"`
	NaturalLighting        *string   `json:"natural_lighting,omitempty" yaml:"natural_lighting,omitempty"`
}

// Busyness is the canonical busyness estimate, an integer on a 0 to 5 scale.
// The backend may send it as a number or as a numeric string; both decode to the same value.
type Busyness int

// MinBusyness and MaxBusyness bound the scale shown to users
const (
	MinBusyness Busyness = 0
	MaxBusyness Busyness = 5
)

// NewBusyness returns a pointer suitable for StudySpot.BusynessEstimate
func NewBusyness(v int) *Busyness {
	b := Busyness(v)
	return &b
}

// ParseBusyness converts a number or numeric string. Fractions are truncated toward zero.
func ParseBusyness(raw string) (Busyness, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty busyness value")
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return Busyness(n), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("busyness %q is not a number", raw)
	}
	return Busyness(int(f)), nil
}

// Int returns the value as an int
func (b Busyness) Int() int {
	return int(b)
}

// String renders in-range values as "n/5"
func (b Busyness) String() string {
	if b >= MinBusyness && b <= MaxBusyness {
		return fmt.Sprintf("%d/%d", int(b), int(MaxBusyness))
	}
	return strconv.Itoa(int(b))
}

// UnmarshalJSON accepts 3, 3.0 and "3"
func (b *Busyness) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseBusyness(s)
		if err != nil {
			return err
		}
		*b = v
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("busyness_estimate must be a number or numeric string: %w", err)
	}
	v, err := ParseBusyness(n.String())
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// PowerLabel maps backend power codes to display text: Y is Yes, N is No, empty is N/A.
// Any other value, such as Limited, is shown unchanged.
func PowerLabel(value string) string {
	switch value {
	case "":
		return "N/A"
	case PowerYes:
		return "Yes"
	case PowerNo:
		return "No"
	default:
		return value
	}
}
