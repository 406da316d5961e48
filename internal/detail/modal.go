// Package detail drives the per-spot detail modal: its open/close choreography,
// the review form and the transient notifications.
package detail

import (
	"fmt"

	"spotfinder/internal/models"
	contextutils "spotfinder/internal/utils"
)

// ModalState is the lifecycle phase of the detail modal
type ModalState int

// Modal states
const (
	ModalClosed ModalState = iota
	ModalOpening
	ModalOpen
	ModalClosing
)

func (s ModalState) String() string {
	switch s {
	case ModalClosed:
		return "closed"
	case ModalOpening:
		return "opening"
	case ModalOpen:
		return "open"
	case ModalClosing:
		return "closing"
	default:
		return fmt.Sprintf("ModalState(%d)", int(s))
	}
}

// ResourceKind orders resource release when the modal finishes closing
type ResourceKind int

// Released in declaration order: timers, then listeners, then the map.
const (
	ResourceTimer ResourceKind = iota
	ResourceListener
	ResourceMap
	resourceKinds
)

// Modal is the detail view state machine. It advances on AnimationEnded
// signals from the renderer, never on timers.
//
// A Modal is not safe for concurrent use; the UI loop owns it.
type Modal struct {
	state      ModalState
	spot       models.StudySpot
	origin     models.Rect
	generation uint64
	resources  [resourceKinds][]func()
}

// NewModal returns a closed modal
func NewModal() *Modal {
	return &Modal{}
}

// State returns the current phase
func (m *Modal) State() ModalState { return m.state }

// Spot returns the spot being shown. It is meaningful while the modal is not closed.
func (m *Modal) Spot() models.StudySpot { return m.spot }

// Origin returns the rectangle of the card the modal expands from
func (m *Modal) Origin() models.Rect { return m.origin }

// Generation identifies the current opening. Work started for an opening
// should carry this value and be dropped when Current reports false.
func (m *Modal) Generation() uint64 { return m.generation }

// Visible reports whether the modal shell is on screen
func (m *Modal) Visible() bool { return m.state != ModalClosed }

// ContentVisible reports whether image, map and reviews may be rendered
func (m *Modal) ContentVisible() bool { return m.state == ModalOpen }

// Current reports whether results tagged with gen still belong to the visible modal
func (m *Modal) Current(gen uint64) bool {
	return m.state != ModalClosed && gen == m.generation
}

// Open starts the expand animation from the card at origin and returns the new generation
func (m *Modal) Open(spot models.StudySpot, origin models.Rect) (uint64, error) {
	if m.state != ModalClosed {
		return m.generation, m.invalid("open")
	}
	m.generation++
	m.spot = spot
	m.origin = origin
	m.state = ModalOpening
	return m.generation, nil
}

// Close hides the content immediately and starts the collapse animation.
// Closing an already closing modal is a no-op.
func (m *Modal) Close() error {
	switch m.state {
	case ModalOpening, ModalOpen:
		m.state = ModalClosing
		return nil
	case ModalClosing:
		return nil
	default:
		return m.invalid("close")
	}
}

// AnimationEnded finishes the running animation. After the collapse it releases
// every registered resource and resets the modal.
func (m *Modal) AnimationEnded() error {
	switch m.state {
	case ModalOpening:
		m.state = ModalOpen
		return nil
	case ModalClosing:
		m.release()
		m.spot = models.StudySpot{}
		m.origin = models.Rect{}
		m.state = ModalClosed
		return nil
	default:
		return m.invalid("animation end")
	}
}

// Register adds a release function run when the modal finishes closing
func (m *Modal) Register(kind ResourceKind, release func()) error {
	if kind < 0 || kind >= resourceKinds {
		return contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown resource kind %d", int(kind))
	}
	if m.state == ModalClosed {
		return m.invalid("register resource")
	}
	m.resources[kind] = append(m.resources[kind], release)
	return nil
}

func (m *Modal) release() {
	for kind := range m.resources {
		for _, fn := range m.resources[kind] {
			fn()
		}
		m.resources[kind] = nil
	}
}

func (m *Modal) invalid(action string) error {
	return contextutils.WrapErrorf(contextutils.ErrInvalidTransition, "cannot %s detail modal while %s", action, m.state)
}
