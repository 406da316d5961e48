package mapview

import (
	"context"
	"fmt"

	"spotfinder/internal/models"
	"spotfinder/internal/observability"
)

// PopupState is which popup of a marker is visible
type PopupState int

// At most one popup per marker is visible.
const (
	PopupHidden PopupState = iota
	PopupHover
	PopupPinned
)

func (s PopupState) String() string {
	switch s {
	case PopupHidden:
		return "hidden"
	case PopupHover:
		return "hover"
	case PopupPinned:
		return "pinned"
	default:
		return fmt.Sprintf("PopupState(%d)", int(s))
	}
}

// LngLat is a geographic position
type LngLat struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Marker is a located spot on the map and the state of its popups
type Marker struct {
	Spot     models.StudySpot
	Position LngLat

	state      PopupState
	events     EventSource
	detach     []func()
	reposition func(*Marker)
}

// State returns the visible popup
func (m *Marker) State() PopupState { return m.state }

// Tracking reports whether the marker listens to map move and zoom events
func (m *Marker) Tracking() bool { return len(m.detach) > 0 }

// MouseEnter shows the hover popup, hiding a pinned detail popup
func (m *Marker) MouseEnter() {
	if m.state != PopupHover {
		m.show(PopupHover)
	}
}

// MouseLeave hides the hover popup. A pinned popup stays.
func (m *Marker) MouseLeave() {
	if m.state == PopupHover {
		m.hide()
	}
}

// Click toggles the detail popup and always hides the hover popup
func (m *Marker) Click() {
	if m.state == PopupPinned {
		m.hide()
		return
	}
	m.show(PopupPinned)
}

// PopupLeave hides whichever popup the pointer just left
func (m *Marker) PopupLeave() {
	m.hide()
}

// OutsideClick hides every popup of the marker
func (m *Marker) OutsideClick() {
	m.hide()
}

func (m *Marker) show(state PopupState) {
	m.unsubscribe()
	m.state = state
	if m.events != nil {
		track := func() {
			if m.reposition != nil {
				m.reposition(m)
			}
		}
		m.detach = append(m.detach,
			m.events.Subscribe(EventMove, track),
			m.events.Subscribe(EventZoom, track))
	}
	if m.reposition != nil {
		m.reposition(m)
	}
}

func (m *Marker) hide() {
	m.unsubscribe()
	m.state = PopupHidden
}

func (m *Marker) unsubscribe() {
	for _, fn := range m.detach {
		fn()
	}
	m.detach = nil
}

// MarkerSet is the markers currently on the map
type MarkerSet struct {
	events     EventSource
	logger     *observability.Logger
	reposition func(*Marker)
	markers    []*Marker
	byID       map[int]*Marker
}

// MarkerSetOption configures a MarkerSet
type MarkerSetOption func(*MarkerSet)

// WithReposition sets the callback run when a visible popup must be placed again
func WithReposition(fn func(*Marker)) MarkerSetOption {
	return func(s *MarkerSet) { s.reposition = fn }
}

// NewMarkerSet creates an empty set bound to the map's events
func NewMarkerSet(events EventSource, logger *observability.Logger, opts ...MarkerSetOption) *MarkerSet {
	s := &MarkerSet{events: events, logger: logger, byID: map[int]*Marker{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rebuild clears the set and adds a marker for every spot with both coordinates.
// The ids of skipped spots are returned in input order.
func (s *MarkerSet) Rebuild(ctx context.Context, spots []models.StudySpot) (skipped []int) {
	s.Clear()
	for _, spot := range spots {
		if !spot.HasCoordinates() {
			s.logger.Warn(ctx, "Study spot missing coordinates", map[string]interface{}{
				"spot_id":  spot.ID,
				"location": spot.Location,
			})
			skipped = append(skipped, spot.ID)
			continue
		}
		m := &Marker{
			Spot:       spot,
			Position:   LngLat{Lat: *spot.Latitude, Lng: *spot.Longitude},
			events:     s.events,
			reposition: s.reposition,
		}
		s.markers = append(s.markers, m)
		s.byID[spot.ID] = m
	}
	s.logger.Debug(ctx, "Rebuilt map markers", map[string]interface{}{
		"markers": len(s.markers),
		"skipped": len(skipped),
	})
	return skipped
}

// Clear hides every popup, detaches its listeners and removes all markers
func (s *MarkerSet) Clear() {
	for _, m := range s.markers {
		m.hide()
	}
	s.markers = nil
	s.byID = map[int]*Marker{}
}

// Markers returns the markers in spot order
func (s *MarkerSet) Markers() []*Marker { return s.markers }

// Len returns the number of markers
func (s *MarkerSet) Len() int { return len(s.markers) }

// Marker returns the marker of a spot
func (s *MarkerSet) Marker(spotID int) (*Marker, bool) {
	m, ok := s.byID[spotID]
	return m, ok
}

// OutsideClick hides the popups of every marker
func (s *MarkerSet) OutsideClick() {
	for _, m := range s.markers {
		m.OutsideClick()
	}
}
