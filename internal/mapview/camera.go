package mapview

import (
	"math"

	"spotfinder/internal/config"
)

// Zoom bounds of the map provider
const (
	MinZoom = 0
	MaxZoom = 22
)

// Terminal cells are roughly twice as tall as they are wide
const (
	cellWidthPx  = 8
	cellHeightPx = 16
	tileSize     = 256
)

// Camera is the visible map region. Moving it emits move and zoom events.
type Camera struct {
	Center LngLat
	Zoom   float64
	events *Emitter
}

// NewCamera creates a camera that reports changes on events, which may be nil
func NewCamera(center LngLat, zoom float64, events *Emitter) *Camera {
	return &Camera{Center: center, Zoom: clampZoom(zoom), events: events}
}

// CameraFromConfig uses the configured centre and zoom
func CameraFromConfig(cfg *config.MapConfig, events *Emitter) *Camera {
	if cfg == nil {
		return NewCamera(LngLat{Lat: config.DefaultMapCenterLat, Lng: config.DefaultMapCenterLng}, config.DefaultMapZoom, events)
	}
	return NewCamera(LngLat{Lat: cfg.CenterLat, Lng: cfg.CenterLng}, cfg.Zoom, events)
}

// PanCells moves the centre by a number of terminal cells
func (c *Camera) PanCells(dx, dy int) {
	x, y := worldPixels(c.Center, c.Zoom)
	c.Center = fromWorldPixels(x+float64(dx*cellWidthPx), y+float64(dy*cellHeightPx), c.Zoom)
	c.emit(EventMove)
}

// ZoomBy changes the zoom level, clamped to the provider's range
func (c *Camera) ZoomBy(delta float64) {
	z := clampZoom(c.Zoom + delta)
	if z == c.Zoom {
		return
	}
	c.Zoom = z
	c.emit(EventZoom)
}

// Project returns the grid cell of p on a cols x rows grid centred on the camera.
// ok is false when p falls outside the grid.
func (c *Camera) Project(p LngLat, cols, rows int) (col, row int, ok bool) {
	cx, cy := worldPixels(c.Center, c.Zoom)
	px, py := worldPixels(p, c.Zoom)
	col = cols/2 + int(math.Floor((px-cx)/cellWidthPx+0.5))
	row = rows/2 + int(math.Floor((py-cy)/cellHeightPx+0.5))
	ok = col >= 0 && col < cols && row >= 0 && row < rows
	return col, row, ok
}

func (c *Camera) emit(kind EventKind) {
	if c.events != nil {
		c.events.Emit(kind)
	}
}

func clampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// worldPixels is the Web Mercator pixel position of p at zoom
func worldPixels(p LngLat, zoom float64) (x, y float64) {
	scale := tileSize * math.Exp2(zoom)
	x = (p.Lng + 180) / 360 * scale
	sin := math.Sin(p.Lat * math.Pi / 180)
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return x, y
}

func fromWorldPixels(x, y, zoom float64) LngLat {
	scale := tileSize * math.Exp2(zoom)
	lng := x/scale*360 - 180
	n := math.Pi - 2*math.Pi*y/scale
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return LngLat{Lat: lat, Lng: lng}
}
