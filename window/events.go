package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// EventKind tells events apart.
type EventKind int

const (
	KeyPressed EventKind = iota
	KeyReleased
	CloseRequested
)

func (k EventKind) String() string {
	switch k {
	case KeyPressed:
		return "key pressed"
	case KeyReleased:
		return "key released"
	case CloseRequested:
		return "close requested"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one input event. Key is only set for key events.
type Event struct {
	Kind EventKind
	Key  glfw.Key
}

// eventQueue collects events from the GLFW callbacks until they are polled.
type eventQueue struct {
	pending []Event
	quit    bool
}

func (q *eventQueue) push(e Event) {
	q.pending = append(q.pending, e)

	if e.Kind == CloseRequested || (e.Kind == KeyPressed && e.Key == glfw.KeyEscape) {
		q.quit = true
	}
}

// drain returns the pending events and starts a new batch.
func (q *eventQueue) drain() []Event {
	events := q.pending
	q.pending = nil
	return events
}
