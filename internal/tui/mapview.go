package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"spotfinder/internal/config"
	"spotfinder/internal/dashboard"
	"spotfinder/internal/mapview"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// popupMargin is the edge margin of map popups, in cells
const popupMargin = 1

// MapModel draws the spots on a cell grid around the camera. One marker at a time
// is under the cursor (hover); enter pins its detail popup.
type MapModel struct {
	ctx    context.Context
	client Client
	logger *observability.Logger
	keys   KeyMap
	styles Styles

	events     *mapview.Emitter
	camera     *mapview.Camera
	markers    *mapview.MarkerSet
	placements map[int]mapview.Placement
	hovered    int
	cols, rows int
	loading    bool
	err        string
}

// NewMapModel creates the map page centred on the configured campus
func NewMapModel(ctx context.Context, client Client, cfg *config.MapConfig, logger *observability.Logger, styles Styles, keys KeyMap) *MapModel {
	m := &MapModel{
		ctx:        ctx,
		client:     client,
		logger:     logger,
		keys:       keys,
		styles:     styles,
		events:     mapview.NewEmitter(),
		placements: map[int]mapview.Placement{},
		hovered:    -1,
		cols:       80,
		rows:       20,
	}
	m.camera = mapview.CameraFromConfig(cfg, m.events)
	m.markers = mapview.NewMarkerSet(m.events, logger, mapview.WithReposition(m.reposition))
	return m
}

// Load fetches the spots to place on the map
func (m *MapModel) Load() tea.Cmd {
	m.loading = true
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		spots, err := client.ListStudySpots(ctx)
		return mapSpotsMsg{spots: spots, err: err}
	}
}

// SetSize sets the grid size in cells
func (m *MapModel) SetSize(cols, rows int) {
	m.cols = max(cols, 10)
	m.rows = max(rows, 5)
	m.refresh()
}

// Camera returns the map camera
func (m *MapModel) Camera() *mapview.Camera {
	return m.camera
}

// Markers returns the marker set
func (m *MapModel) Markers() *mapview.MarkerSet {
	return m.markers
}

// Update handles map messages and keys
func (m *MapModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case mapSpotsMsg:
		m.loading = false
		m.hovered = -1
		m.placements = map[int]mapview.Placement{}
		if msg.err != nil {
			m.logger.Error(m.ctx, "Error fetching study spots", msg.err)
			m.err = dashboard.LoadErrorMessage
			m.markers.Clear()
			return nil
		}
		m.err = ""
		m.markers.Rebuild(m.ctx, msg.spots)
		return nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *MapModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.camera.PanCells(0, -2)
	case key.Matches(msg, m.keys.Down):
		m.camera.PanCells(0, 2)
	case key.Matches(msg, m.keys.Left):
		m.camera.PanCells(-4, 0)
	case key.Matches(msg, m.keys.Right):
		m.camera.PanCells(4, 0)
	case key.Matches(msg, m.keys.ZoomIn):
		m.camera.ZoomBy(1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.camera.ZoomBy(-1)
	case key.Matches(msg, m.keys.Next):
		m.hoverNext()
	case key.Matches(msg, m.keys.Enter):
		if marker := m.current(); marker != nil {
			marker.Click()
			m.syncPlacement(marker)
		}
	case key.Matches(msg, m.keys.Back):
		m.markers.OutsideClick()
		m.placements = map[int]mapview.Placement{}
		m.hovered = -1
	case key.Matches(msg, m.keys.Reload):
		return m.Load()
	}
	return nil
}

// hoverNext moves the pointer to the next marker: the old one gets MouseLeave, the new one MouseEnter
func (m *MapModel) hoverNext() {
	all := m.markers.Markers()
	if len(all) == 0 {
		return
	}
	if old := m.current(); old != nil {
		old.MouseLeave()
		m.syncPlacement(old)
	}
	m.hovered = (m.hovered + 1) % len(all)
	next := all[m.hovered]
	next.MouseEnter()
	m.syncPlacement(next)
}

func (m *MapModel) current() *mapview.Marker {
	all := m.markers.Markers()
	if m.hovered < 0 || m.hovered >= len(all) {
		return nil
	}
	return all[m.hovered]
}

func (m *MapModel) syncPlacement(marker *mapview.Marker) {
	if marker.State() == mapview.PopupHidden {
		delete(m.placements, marker.Spot.ID)
	}
}

// refresh recomputes the placement of every visible popup
func (m *MapModel) refresh() {
	for _, marker := range m.markers.Markers() {
		if marker.State() != mapview.PopupHidden {
			m.reposition(marker)
		}
	}
}

// reposition is called by a marker when its popup opens and on every camera move or zoom
func (m *MapModel) reposition(marker *mapview.Marker) {
	col, row, ok := m.camera.Project(marker.Position, m.cols, m.rows)
	if !ok || marker.State() == mapview.PopupHidden {
		delete(m.placements, marker.Spot.ID)
		return
	}
	anchor := models.Rect{Left: float64(col), Top: float64(row), Width: 1, Height: 1}
	lines := popupLines(marker)
	size := models.Size{Width: float64(blockWidth(lines)), Height: float64(len(lines))}
	viewport := models.Size{Width: float64(m.cols), Height: float64(m.rows)}

	if marker.State() == mapview.PopupPinned {
		m.placements[marker.Spot.ID] = mapview.PlaceWithMargin(anchor, size, viewport, popupMargin)
		return
	}
	m.placements[marker.Spot.ID] = mapview.PlaceHoverWithMargin(anchor, size, viewport, popupMargin)
}

// Placement returns where the popup of spotID is drawn
func (m *MapModel) Placement(spotID int) (mapview.Placement, bool) {
	p, ok := m.placements[spotID]
	return p, ok
}

func popupLines(marker *mapview.Marker) []string {
	if marker.State() == mapview.PopupHover {
		return []string{" " + mapview.HoverContent(marker.Spot) + " "}
	}
	content := mapview.DetailContent(marker.Spot)
	lines := []string{" " + content.Title + " "}
	for _, attr := range content.Attributes {
		lines = append(lines, fmt.Sprintf(" %s: %s ", attr.Label, attr.Value))
	}
	return lines
}

func blockWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, lipgloss.Width(l))
	}
	return w
}

// View draws the grid, the markers and the visible popups
func (m *MapModel) View() string {
	if m.loading {
		return m.styles.Muted.Render("Loading map...")
	}

	grid := make([][]rune, m.rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat("·", m.cols))
	}
	for i, marker := range m.markers.Markers() {
		col, row, ok := m.camera.Project(marker.Position, m.cols, m.rows)
		if !ok {
			continue
		}
		grid[row][col] = '●'
		if i == m.hovered {
			grid[row][col] = '◉'
		}
	}
	for _, marker := range m.markers.Markers() {
		p, ok := m.placements[marker.Spot.ID]
		if !ok {
			continue
		}
		drawBox(grid, popupLines(marker), p.Box)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", m.styles.Title.Render("Campus map"),
		m.styles.Muted.Render(fmt.Sprintf("%.4f, %.4f  zoom %.0f", m.camera.Center.Lat, m.camera.Center.Lng, m.camera.Zoom)))
	if m.err != "" {
		b.WriteString(m.styles.Error.Render(m.err) + "\n")
	}
	for _, row := range grid {
		b.WriteString(m.styles.Marker.Render(string(row)))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("arrows pan • +/- zoom • n next marker • enter details • esc hide"))
	return b.String()
}

// drawBox writes lines into grid at box, clipped to the grid
func drawBox(grid [][]rune, lines []string, box models.Rect) {
	top := int(math.Round(box.Top))
	left := int(math.Round(box.Left))
	width := int(math.Round(box.Width))
	for i, line := range lines {
		r := top + i
		if r < 0 || r >= len(grid) {
			continue
		}
		runes := []rune(line)
		for c := 0; c < width; c++ {
			x := left + c
			if x < 0 || x >= len(grid[r]) {
				continue
			}
			ch := ' '
			if c < len(runes) {
				ch = runes[c]
			}
			grid[r][x] = ch
		}
	}
}
