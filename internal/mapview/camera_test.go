package mapview

import (
	"testing"

	"spotfinder/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestCameraFromConfig_Defaults(t *testing.T) {
	c := CameraFromConfig(nil, nil)
	assert.Equal(t, LngLat{Lat: 43.4723, Lng: -80.5426}, c.Center)
	assert.Equal(t, 15.0, c.Zoom)

	cfg := config.Default()
	c = CameraFromConfig(&cfg.Map, nil)
	assert.Equal(t, LngLat{Lat: config.DefaultMapCenterLat, Lng: config.DefaultMapCenterLng}, c.Center)
}

func TestCamera_ProjectCentre(t *testing.T) {
	c := NewCamera(LngLat{Lat: 43.4723, Lng: -80.5426}, 15, nil)

	col, row, ok := c.Project(c.Center, 80, 24)
	assert.True(t, ok)
	assert.Equal(t, 40, col)
	assert.Equal(t, 12, row)

	// east and north of centre land right of and above it
	col, row, ok = c.Project(LngLat{Lat: 43.4733, Lng: -80.5406}, 80, 24)
	assert.True(t, ok)
	assert.Greater(t, col, 40)
	assert.Less(t, row, 12)

	_, _, ok = c.Project(LngLat{Lat: 44, Lng: -79}, 80, 24)
	assert.False(t, ok)
}

func TestCamera_EventsAndZoomClamp(t *testing.T) {
	events := NewEmitter()
	moves, zooms := 0, 0
	events.Subscribe(EventMove, func() { moves++ })
	events.Subscribe(EventZoom, func() { zooms++ })
	c := NewCamera(LngLat{Lat: 43.4723, Lng: -80.5426}, 21.5, events)

	c.ZoomBy(1)
	assert.Equal(t, float64(MaxZoom), c.Zoom)
	c.ZoomBy(1)
	assert.Equal(t, 1, zooms, "no event when the zoom is unchanged")

	before := c.Center
	c.PanCells(3, 0)
	assert.Equal(t, 1, moves)
	assert.Greater(t, c.Center.Lng, before.Lng)
	assert.InDelta(t, before.Lat, c.Center.Lat, 1e-9)

	col, _, _ := c.Project(before, 80, 24)
	assert.Equal(t, 37, col)
}
