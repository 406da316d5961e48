package mapview

import (
	"strconv"

	"spotfinder/internal/models"
)

// Attribute is one row of the detail popup
type Attribute struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DetailPopup is the content of the pinned popup
type DetailPopup struct {
	Title      string      `json:"title"`
	Attributes []Attribute `json:"attributes"`
}

// HoverContent is the hover popup text: the spot name only
func HoverContent(spot models.StudySpot) string {
	return spot.DisplayName()
}

// DetailContent lists the attributes the spot has, in a fixed order
func DetailContent(spot models.StudySpot) DetailPopup {
	attrs := make([]Attribute, 0, 5)
	if spot.BusynessEstimate != nil {
		attrs = append(attrs, Attribute{"Busyness", strconv.Itoa(spot.BusynessEstimate.Int())})
	}
	if spot.NoiseLevel != "" {
		attrs = append(attrs, Attribute{"Noise", spot.NoiseLevel})
	}
	if spot.PowerOptions != "" {
		attrs = append(attrs, Attribute{"Power", models.PowerLabel(spot.PowerOptions)})
	}
	if spot.NearbyFoodDrinkOptions != "" {
		attrs = append(attrs, Attribute{"Food", spot.NearbyFoodDrinkOptions})
	}
	if spot.NaturalLighting != "" {
		attrs = append(attrs, Attribute{"Lighting", spot.NaturalLighting})
	}
	return DetailPopup{Title: spot.DisplayName(), Attributes: attrs}
}
