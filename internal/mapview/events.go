// Package mapview models the map page: one marker per located spot, each with
// a hover popup and a pinned detail popup, plus popup placement and the camera.
package mapview

import "sync"

// EventKind names a map event popups track
type EventKind string

// Map events that move popups
const (
	EventMove EventKind = "move"
	EventZoom EventKind = "zoom"
)

// EventSource is the map's event bus. Subscribe returns the function that detaches the listener.
type EventSource interface {
	Subscribe(kind EventKind, fn func()) (unsubscribe func())
}

// Emitter is an in-process EventSource
type Emitter struct {
	mu        sync.Mutex
	next      int
	listeners map[EventKind]map[int]func()
}

// NewEmitter creates an emitter with no listeners
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[EventKind]map[int]func())}
}

// Subscribe registers fn for kind. The returned function is safe to call more than once.
func (e *Emitter) Subscribe(kind EventKind, fn func()) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.next
	e.next++
	if e.listeners[kind] == nil {
		e.listeners[kind] = make(map[int]func())
	}
	e.listeners[kind][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.listeners[kind], id)
		})
	}
}

// Emit calls every listener of kind. Listeners may unsubscribe while being called.
func (e *Emitter) Emit(kind EventKind) {
	e.mu.Lock()
	fns := make([]func(), 0, len(e.listeners[kind]))
	for _, fn := range e.listeners[kind] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ListenerCount returns the number of listeners attached for kind
func (e *Emitter) ListenerCount(kind EventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[kind])
}
