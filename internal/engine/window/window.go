// Package window creates an OpenGL window and translates its input into
// backend-neutral events and state.
package window

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/Faultbox/gllessons/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// ErrUnknownBackend is returned by New for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown window backend")

// Config holds window configuration.
type Config struct {
	Backend    string
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Bindings   input.Bindings
}

// Window is an OpenGL 4.1 core window. Its input.State methods read the
// keys and buttons named by the configured bindings.
type Window interface {
	input.State

	// PollEvents processes pending window events.
	PollEvents() []input.Event
	SwapBuffers()
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (width, height int)
	ShouldClose() bool
	// Time returns seconds since the window was created.
	Time() float64
	Close()
}

// New creates a window with the configured backend. An empty backend
// selects SDL.
func New(cfg Config) (Window, error) {
	if cfg.Bindings == nil {
		cfg.Bindings = input.DefaultBindings()
	}
	switch strings.ToLower(cfg.Backend) {
	case BackendSDL, "":
		return newSDL(cfg)
	case BackendGLFW:
		return newGLFW(cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// mouseButton returns the zero-based button index for a mouse key name:
// 0 left, 1 right, 2 middle.
func mouseButton(key string) (int, bool) {
	switch {
	case strings.EqualFold(key, input.MouseLeft):
		return 0, true
	case strings.EqualFold(key, input.MouseRight):
		return 1, true
	case strings.EqualFold(key, input.MouseMiddle):
		return 2, true
	}
	return 0, false
}

// keyDownEvents returns one EventKeyDown per action bound to key.
func keyDownEvents(b input.Bindings, key string) []input.Event {
	actions := b.Lookup(key)
	events := make([]input.Event, 0, len(actions))
	for _, a := range actions {
		events = append(events, input.Event{Type: input.EventKeyDown, Action: a})
	}
	return events
}

// scale converts between window coordinates and framebuffer pixels, which
// differ on high-DPI displays.
type scale struct {
	x, y float64
}

func newScale(winW, winH, fbW, fbH int) scale {
	s := scale{1, 1}
	if winW > 0 && fbW > 0 {
		s.x = float64(fbW) / float64(winW)
	}
	if winH > 0 && fbH > 0 {
		s.y = float64(fbH) / float64(winH)
	}
	return s
}

func (s scale) toPixels(x, y float64) (float64, float64) {
	return x * s.x, y * s.y
}

func (s scale) toWindow(x, y float64) (float64, float64) {
	return x / s.x, y / s.y
}
