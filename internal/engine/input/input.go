// Package input defines backend-neutral input actions, events and state.
//
// Window backends translate their native events into Event values and
// expose held keys and the cursor through State, so cameras never touch
// SDL or GLFW directly.
package input

// EventType classifies a window event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventScroll
	EventKeyDown
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventResize:
		return "resize"
	case EventScroll:
		return "scroll"
	case EventKeyDown:
		return "key_down"
	default:
		return "none"
	}
}

// Event is a processed window event.
type Event struct {
	Type EventType

	// EventResize: new framebuffer size in pixels.
	Width  int
	Height int

	// EventScroll: wheel offsets, positive Y scrolls up/away from the user.
	ScrollX float64
	ScrollY float64

	// EventKeyDown: the bound action of the key that went down.
	Action Action
}

// State is the polled input state a camera reads during Update.
type State interface {
	// Pressed reports whether the key or button bound to a is held.
	Pressed(a Action) bool
	// CursorPos returns the cursor position in window coordinates.
	CursorPos() (x, y float64)
	SetCursorPos(x, y float64)
	SetCursorHidden(hidden bool)
}
