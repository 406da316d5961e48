package models

// Rect is a screen rectangle in pixels (web) or cells (terminal), origin top-left
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// CenterX returns the horizontal centre
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// Size is a width and height, used for popups and viewports
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
