package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/engine/input"
	"github.com/Faultbox/gllessons/internal/logger"
)

// glfwButtons maps mouseButton indices to GLFW buttons.
var glfwButtons = [3]glfw.MouseButton{glfw.MouseButtonLeft, glfw.MouseButtonRight, glfw.MouseButtonMiddle}

// glfwWindow wraps a GLFW window. Callbacks only queue events; PollEvents
// hands them out.
type glfwWindow struct {
	config Config
	log    *zap.Logger
	win    *glfw.Window
	scale  scale
	queue  []input.Event
	events []input.Event
}

func newGLFW(cfg Config) (Window, error) {
	w := &glfwWindow{
		config: cfg,
		log:    logger.Named("window"),
	}

	w.log.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwInit failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	var err error
	w.win, err = glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwCreateWindow failed: %w", err)
	}
	w.win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w.win.SetFramebufferSizeCallback(w.onFramebufferSize)
	w.win.SetScrollCallback(w.onScroll)
	w.win.SetKeyCallback(w.onKey)
	w.win.SetMouseButtonCallback(w.onMouseButton)
	w.win.SetCloseCallback(w.onClose)

	w.updateScale()
	glfw.SetTime(0)

	fbW, fbH := w.FramebufferSize()
	w.log.Info("window created",
		zap.String("backend", BackendGLFW),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("framebuffer_width", fbW),
		zap.Int("framebuffer_height", fbH),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

func (w *glfwWindow) updateScale() {
	ww, wh := w.win.GetSize()
	fw, fh := w.win.GetFramebufferSize()
	w.scale = newScale(ww, wh, fw, fh)
}

func (w *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	w.updateScale()
	w.queue = append(w.queue, input.Event{Type: input.EventResize, Width: width, Height: height})
}

func (w *glfwWindow) onScroll(_ *glfw.Window, xoff, yoff float64) {
	w.queue = append(w.queue, input.Event{Type: input.EventScroll, ScrollX: xoff, ScrollY: yoff})
}

func (w *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if name, ok := glfwKeyName(key); ok {
		w.queue = append(w.queue, keyDownEvents(w.config.Bindings, name)...)
	}
}

func (w *glfwWindow) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	names := [3]string{input.MouseLeft, input.MouseRight, input.MouseMiddle}
	for i, b := range glfwButtons {
		if b == button {
			w.queue = append(w.queue, keyDownEvents(w.config.Bindings, names[i])...)
		}
	}
}

func (w *glfwWindow) onClose(_ *glfw.Window) {
	w.queue = append(w.queue, input.Event{Type: input.EventQuit})
}

// PollEvents implements Window.
func (w *glfwWindow) PollEvents() []input.Event {
	glfw.PollEvents()
	w.events = append(w.events[:0], w.queue...)
	w.queue = w.queue[:0]
	return w.events
}

// Pressed implements input.State.
func (w *glfwWindow) Pressed(a input.Action) bool {
	key, ok := w.config.Bindings.Key(a)
	if !ok {
		return false
	}
	if btn, ok := mouseButton(key); ok {
		return w.win.GetMouseButton(glfwButtons[btn]) == glfw.Press
	}
	k, ok := glfwKey(key)
	if !ok {
		return false
	}
	return w.win.GetKey(k) == glfw.Press
}

// CursorPos implements input.State, in framebuffer pixels.
func (w *glfwWindow) CursorPos() (x, y float64) {
	return w.scale.toPixels(w.win.GetCursorPos())
}

// SetCursorPos implements input.State.
func (w *glfwWindow) SetCursorPos(x, y float64) {
	w.win.SetCursorPos(w.scale.toWindow(x, y))
}

// SetCursorHidden implements input.State.
func (w *glfwWindow) SetCursorHidden(hidden bool) {
	mode := glfw.CursorNormal
	if hidden {
		mode = glfw.CursorHidden
	}
	w.win.SetInputMode(glfw.CursorMode, mode)
}

func (w *glfwWindow) SwapBuffers() { w.win.SwapBuffers() }

func (w *glfwWindow) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

func (w *glfwWindow) ShouldClose() bool { return w.win.ShouldClose() }

func (w *glfwWindow) Time() float64 { return glfw.GetTime() }

// Close destroys the window and terminates GLFW.
func (w *glfwWindow) Close() {
	w.log.Info("closing window")
	w.win.Destroy()
	glfw.Terminate()
}
