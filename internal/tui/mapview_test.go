package tui

import (
	"context"
	"errors"
	"testing"

	"spotfinder/internal/config"
	"spotfinder/internal/dashboard"
	"spotfinder/internal/mapview"
	"spotfinder/internal/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
)

// the camera starts on the first test spot so its marker sits in the middle of the grid
func newTestMap(t *testing.T, client *mockClient) (*MapModel, *observer.ObservedLogs) {
	t.Helper()
	logger, logs := testLogger()
	cfg := &config.MapConfig{CenterLat: 43.4698, CenterLng: -80.5422, Zoom: 16}
	m := NewMapModel(context.Background(), client, cfg, logger, DefaultStyles(), DefaultKeyMap())
	m.SetSize(80, 20)
	drain(m.Update, m.Load())
	return m, logs
}

func TestMap_LoadSkipsSpotsWithoutCoordinates(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)

	m, logs := newTestMap(t, client)

	assert.Equal(t, 1, m.Markers().Len())
	_, ok := m.Markers().Marker(2)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("Study spot missing coordinates").Len())
	assert.Contains(t, m.View(), "●")
}

func TestMap_LoadError(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(nil, errors.New("unreachable"))

	m, logs := newTestMap(t, client)

	assert.Equal(t, 0, m.Markers().Len())
	assert.Contains(t, m.View(), dashboard.LoadErrorMessage)
	assert.Equal(t, 1, logs.FilterMessage("Error fetching study spots").Len())
}

func TestMap_HoverPopupSitsAboveMarker(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	m, _ := newTestMap(t, client)

	m.Update(keyRunes("n"))

	marker, ok := m.Markers().Marker(1)
	require.True(t, ok)
	assert.Equal(t, mapview.PopupHover, marker.State())
	assert.True(t, marker.Tracking())

	col, row, visible := m.Camera().Project(marker.Position, 80, 20)
	require.True(t, visible)
	p, ok := m.Placement(1)
	require.True(t, ok)
	assert.False(t, p.Below)
	assert.Equal(t, float64(row-popupMargin), p.Box.Bottom())
	assert.InDelta(t, float64(col)+0.5, p.Box.CenterX(), 0.5)

	view := m.View()
	assert.Contains(t, view, "◉")
	assert.Contains(t, view, "Dana Porter Library")
}

func TestMap_PinnedPopupFollowsPan(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	m, _ := newTestMap(t, client)

	m.Update(keyRunes("n"))
	m.Update(keyType(tea.KeyEnter))

	marker, _ := m.Markers().Marker(1)
	require.Equal(t, mapview.PopupPinned, marker.State())
	before, ok := m.Placement(1)
	require.True(t, ok)
	assert.Contains(t, m.View(), "Noise: Quiet")

	m.Update(keyType(tea.KeyRight))

	after, ok := m.Placement(1)
	require.True(t, ok)
	assert.Equal(t, before.Box.Left-4, after.Box.Left)
	assert.Equal(t, before.Box.Top, after.Box.Top)
}

func TestMap_ZoomRepositions(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	m, _ := newTestMap(t, client)
	zoom := m.Camera().Zoom

	m.Update(keyRunes("+"))
	assert.Equal(t, zoom+1, m.Camera().Zoom)

	m.Update(keyRunes("-"))
	assert.Equal(t, zoom, m.Camera().Zoom)
}

func TestMap_EscHidesPopups(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	m, _ := newTestMap(t, client)
	m.Update(keyRunes("n"))
	m.Update(keyType(tea.KeyEnter))

	m.Update(keyType(tea.KeyEsc))

	marker, _ := m.Markers().Marker(1)
	assert.Equal(t, mapview.PopupHidden, marker.State())
	assert.False(t, marker.Tracking())
	_, ok := m.Placement(1)
	assert.False(t, ok)
	assert.NotContains(t, m.View(), "◉")
}

func TestMap_NextWrapsAround(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	m, _ := newTestMap(t, client)

	m.Update(keyRunes("n"))
	m.Update(keyRunes("n"))

	marker, _ := m.Markers().Marker(1)
	assert.Equal(t, 0, m.hovered)
	assert.Equal(t, mapview.PopupHover, marker.State())
}

func TestDrawBox_ClipsToGrid(t *testing.T) {
	grid := [][]rune{[]rune("....."), []rune(".....")}

	drawBox(grid, []string{"abc", "de"}, models.Rect{Left: -1, Top: -1, Width: 3, Height: 2})

	assert.Equal(t, "e ...", string(grid[0]))
	assert.Equal(t, ".....", string(grid[1]))
}
