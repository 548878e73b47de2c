package window

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/engine/input"
	"github.com/Faultbox/gllessons/internal/logger"
)

// sdlButtons maps mouseButton indices to SDL button numbers.
var sdlButtons = [3]uint32{sdl.BUTTON_LEFT, sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE}

// sdlWindow wraps an SDL2 window and OpenGL context.
type sdlWindow struct {
	config    Config
	log       *zap.Logger
	sdlWindow *sdl.Window
	glContext sdl.GLContext

	start     time.Time
	quit      bool
	scale     scale
	scancodes map[string]sdl.Scancode
	events    []input.Event
}

func newSDL(cfg Config) (Window, error) {
	w := &sdlWindow{
		config:    cfg,
		log:       logger.Named("window"),
		scancodes: make(map[string]sdl.Scancode),
		events:    make([]input.Event, 0, 16),
	}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	w.updateScale()
	w.start = time.Now()

	fbW, fbH := w.FramebufferSize()
	w.log.Info("window created",
		zap.String("backend", BackendSDL),
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

func (w *sdlWindow) updateScale() {
	ww, wh := w.sdlWindow.GetSize()
	fw, fh := w.sdlWindow.GLGetDrawableSize()
	w.scale = newScale(int(ww), int(wh), int(fw), int(fh))
}

// PollEvents implements Window.
func (w *sdlWindow) PollEvents() []input.Event {
	w.events = w.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.quit = true
			w.events = append(w.events, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				w.updateScale()
				fw, fh := w.FramebufferSize()
				w.events = append(w.events, input.Event{
					Type:   input.EventResize,
					Width:  fw,
					Height: fh,
				})
			}

		case *sdl.MouseWheelEvent:
			x, y := float64(e.X), float64(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				x, y = -x, -y
			}
			w.events = append(w.events, input.Event{
				Type:    input.EventScroll,
				ScrollX: x,
				ScrollY: y,
			})

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				w.events = append(w.events, keyDownEvents(w.config.Bindings, sdl.GetKeyName(e.Keysym.Sym))...)
			}

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				if name, ok := sdlButtonName(e.Button); ok {
					w.events = append(w.events, keyDownEvents(w.config.Bindings, name)...)
				}
			}
		}
	}

	return w.events
}

func sdlButtonName(button uint8) (string, bool) {
	switch button {
	case sdl.BUTTON_LEFT:
		return input.MouseLeft, true
	case sdl.BUTTON_RIGHT:
		return input.MouseRight, true
	case sdl.BUTTON_MIDDLE:
		return input.MouseMiddle, true
	}
	return "", false
}

// Pressed implements input.State.
func (w *sdlWindow) Pressed(a input.Action) bool {
	key, ok := w.config.Bindings.Key(a)
	if !ok {
		return false
	}

	if btn, ok := mouseButton(key); ok {
		_, _, state := sdl.GetMouseState()
		return state&(1<<(sdlButtons[btn]-1)) != 0
	}

	code, ok := w.scancodes[key]
	if !ok {
		code = sdl.GetScancodeFromName(key)
		if code == sdl.SCANCODE_UNKNOWN {
			w.log.Warn("unknown key name in bindings",
				zap.String("action", string(a)),
				zap.String("key", key))
		}
		w.scancodes[key] = code
	}
	if code == sdl.SCANCODE_UNKNOWN {
		return false
	}

	state := sdl.GetKeyboardState()
	return int(code) < len(state) && state[code] != 0
}

// CursorPos implements input.State, in framebuffer pixels.
func (w *sdlWindow) CursorPos() (x, y float64) {
	mx, my, _ := sdl.GetMouseState()
	return w.scale.toPixels(float64(mx), float64(my))
}

// SetCursorPos implements input.State.
func (w *sdlWindow) SetCursorPos(x, y float64) {
	wx, wy := w.scale.toWindow(x, y)
	w.sdlWindow.WarpMouseInWindow(int32(wx), int32(wy))
}

// SetCursorHidden implements input.State.
func (w *sdlWindow) SetCursorHidden(hidden bool) {
	toggle := sdl.ENABLE
	if hidden {
		toggle = sdl.DISABLE
	}
	if _, err := sdl.ShowCursor(toggle); err != nil {
		w.log.Warn("failed to change cursor visibility", zap.Error(err))
	}
}

// SwapBuffers swaps the OpenGL buffers.
func (w *sdlWindow) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// FramebufferSize implements Window.
func (w *sdlWindow) FramebufferSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

func (w *sdlWindow) ShouldClose() bool { return w.quit }

func (w *sdlWindow) Time() float64 {
	return time.Since(w.start).Seconds()
}

// Close destroys the window and cleans up SDL2.
func (w *sdlWindow) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}
