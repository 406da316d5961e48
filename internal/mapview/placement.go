package mapview

import "spotfinder/internal/models"

// EdgeMargin is the distance popups keep from the viewport edges, in pixels
const EdgeMargin = 10

// Popup sizes used before the popup has been measured
var (
	DefaultHoverSize  = models.Size{Width: 150, Height: 40}
	DefaultDetailSize = models.Size{Width: 300, Height: 150}
)

// Placement is where a popup goes. Box is the popup rectangle; Below is set
// when there was no room above the marker.
type Placement struct {
	Box   models.Rect `json:"box"`
	Below bool        `json:"below"`
}

// PlaceHover positions the hover popup centred above the marker. It is
// clamped horizontally only; the hover popup never flips.
func PlaceHover(anchor models.Rect, popup, viewport models.Size) Placement {
	return PlaceHoverWithMargin(anchor, popup, viewport, EdgeMargin)
}

// PlaceHoverWithMargin is PlaceHover with a custom edge margin
func PlaceHoverWithMargin(anchor models.Rect, popup, viewport models.Size, margin float64) Placement {
	popup = sized(popup, DefaultHoverSize)
	left := clampCentre(anchor.CenterX(), popup.Width, viewport.Width, margin) - popup.Width/2
	bottom := anchor.Top - margin
	return Placement{Box: models.Rect{Left: left, Top: bottom - popup.Height, Width: popup.Width, Height: popup.Height}}
}

// Place positions the detail popup: centred above the marker and clamped
// horizontally, flipped below the marker when it would cross the top margin,
// then pushed up so it never crosses the bottom margin.
func Place(anchor models.Rect, popup, viewport models.Size) Placement {
	return PlaceWithMargin(anchor, popup, viewport, EdgeMargin)
}

// PlaceWithMargin is Place with a custom edge margin
func PlaceWithMargin(anchor models.Rect, popup, viewport models.Size, margin float64) Placement {
	popup = sized(popup, DefaultDetailSize)
	left := clampCentre(anchor.CenterX(), popup.Width, viewport.Width, margin) - popup.Width/2

	var p Placement
	top := anchor.Top - margin - popup.Height
	if top < margin {
		top = anchor.Bottom() + margin
		p.Below = true
	}
	if top+popup.Height > viewport.Height-margin {
		top = viewport.Height - popup.Height - margin
	}
	p.Box = models.Rect{Left: left, Top: top, Width: popup.Width, Height: popup.Height}
	return p
}

func clampCentre(centre, width, viewportWidth, margin float64) float64 {
	if centre-width/2 < margin {
		return width/2 + margin
	}
	if centre+width/2 > viewportWidth-margin {
		return viewportWidth - width/2 - margin
	}
	return centre
}

func sized(s, fallback models.Size) models.Size {
	if s.Width <= 0 {
		s.Width = fallback.Width
	}
	if s.Height <= 0 {
		s.Height = fallback.Height
	}
	return s
}
