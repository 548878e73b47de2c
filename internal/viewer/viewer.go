// Package viewer implements the model viewer's main loop.
package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/config"
	"github.com/Faultbox/gllessons/internal/engine/camera"
	"github.com/Faultbox/gllessons/internal/engine/debug"
	"github.com/Faultbox/gllessons/internal/engine/input"
	"github.com/Faultbox/gllessons/internal/engine/model"
	"github.com/Faultbox/gllessons/internal/engine/renderer"
	"github.com/Faultbox/gllessons/internal/engine/shader"
	"github.com/Faultbox/gllessons/internal/engine/shaders"
	"github.com/Faultbox/gllessons/internal/engine/window"
	"github.com/Faultbox/gllessons/internal/logger"
)

// maxFrameTime caps the time fed to fixed updates after a stall.
const maxFrameTime = 0.25

var lightColor = mgl32.Vec3{1, 1, 1}

// Viewer owns the window, GPU resources, model and camera.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   window.Window
	renderer *renderer.Renderer
	program  *shader.Program
	watcher  *shader.Watcher
	model    *model.Model
	camera   camera.Camera
	shots    *debug.Screenshots
	capture  bool
}

// New creates the window and loads the scene.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:   cfg,
		log:   logger.Named("viewer"),
		shots: debug.NewScreenshots(cfg.Graphics.ScreenshotDir, "gllessons"),
	}
	v.log.Info("initializing viewer",
		zap.String("model", cfg.Scene.Model),
		zap.String("camera", cfg.Camera.Variant),
		zap.String("backend", cfg.Graphics.Backend),
	)

	variant, err := camera.ParseVariant(cfg.Camera.Variant)
	if err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Backend:    cfg.Graphics.Backend,
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Bindings:   cfg.Controls,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbW, fbH := v.window.FramebufferSize()

	// Create renderer (AFTER window, since OpenGL context must exist)
	v.renderer, err = renderer.New(renderer.Config{
		Width:      fbW,
		Height:     fbH,
		ClearColor: cfg.Graphics.ClearColor,
		Wireframe:  cfg.Graphics.Wireframe,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := v.loadShaders(); err != nil {
		v.Close()
		return nil, err
	}

	v.model = model.New(v.renderer, v.renderer)
	if err := v.model.LoadModel(cfg.Scene.Model); err != nil {
		v.Close()
		return nil, err
	}
	if cfg.Scene.Subdivide > 0 {
		v.model.SubdivideMeshes(cfg.Scene.Subdivide)
	}

	c := cfg.Camera
	v.camera, err = camera.New(variant, mgl32.Vec3(c.Position), c.Roll, c.Pitch, c.Yaw, fbW, fbH)
	if err != nil {
		v.Close()
		return nil, err
	}
	v.camera.Configure(cameraSettings(c))

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// cameraSettings converts config tuning to camera settings. Zero values
// keep the variant's defaults.
func cameraSettings(c config.CameraConfig) camera.Settings {
	return camera.Settings{
		Speed:            c.Speed,
		SprintMultiplier: c.SprintMultiplier,
		RollSpeed:        c.RollSpeed,
		Sensitivity:      c.Sensitivity,
		ZoomSensitivity:  c.ZoomSensitivity,
		FOV:              c.FOV,
		Near:             c.Near,
		Far:              c.Far,
	}
}

// loadShaders builds the program from the configured files, or from the
// embedded sources when none are set.
func (v *Viewer) loadShaders() error {
	scene := v.cfg.Scene
	if scene.VertexShader == "" || scene.FragmentShader == "" {
		p, err := shader.New(shaders.ModelVert, shaders.ModelFrag)
		if err != nil {
			return fmt.Errorf("embedded shaders: %w", err)
		}
		v.program = p
		return nil
	}

	p, err := shader.Load(scene.VertexShader, scene.FragmentShader)
	if err != nil {
		return err
	}
	v.program = p

	if scene.HotReload {
		w, err := shader.NewWatcher(scene.VertexShader, scene.FragmentShader)
		if err != nil {
			// Viewing still works without reloads.
			v.log.Warn("shader hot reload disabled", zap.Error(err))
			return nil
		}
		v.watcher = w
	}
	return nil
}

// Run runs the main loop until the window closes or quit is pressed.
func (v *Viewer) Run() error {
	v.running = true

	hz := v.cfg.Graphics.UpdateHz
	if hz <= 0 {
		hz = 60
	}
	steps := newStepper(1 / float64(hz))

	lastTime := v.window.Time()
	frameCount := 0
	fpsTimer := lastTime

	v.log.Info("starting main loop", zap.Int("update_hz", hz))

	for v.running {
		now := v.window.Time()
		frame := min(now-lastTime, maxFrameTime)
		lastTime = now

		// 1. Events
		for _, ev := range v.window.PollEvents() {
			v.handleEvent(ev, frame)
		}
		if v.window.ShouldClose() {
			break
		}

		// 2. Fixed-rate camera updates
		for n := steps.advance(frame); n > 0; n-- {
			v.camera.Update(v.window, steps.step)
		}

		if v.watcher != nil && v.watcher.Poll() {
			v.reloadShaders()
		}

		// 3. Render
		v.render()
		if v.capture {
			v.screenshot()
			v.capture = false
		}

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		frameCount++
		if now-fpsTimer >= 1 {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("frame_ms", frame*1000))
			frameCount = 0
			fpsTimer = now
		}
	}

	return nil
}

func (v *Viewer) handleEvent(ev input.Event, dt float64) {
	switch ev.Type {
	case input.EventQuit:
		v.running = false
	case input.EventResize:
		v.renderer.Resize(ev.Width, ev.Height)
		v.camera.HandleWindowEvent(ev, dt)
	case input.EventScroll:
		v.camera.HandleWindowEvent(ev, dt)
	case input.EventKeyDown:
		switch ev.Action {
		case input.ActionQuit:
			v.running = false
		case input.ActionToggleWireframe:
			v.renderer.SetWireframe(!v.renderer.Wireframe())
			v.log.Info("wireframe toggled", zap.Bool("on", v.renderer.Wireframe()))
		case input.ActionReloadShaders:
			v.reloadShaders()
		case input.ActionScreenshot:
			v.capture = true
		}
	}
}

// reloadShaders rebuilds the program. Failures keep the running program.
func (v *Viewer) reloadShaders() {
	var err error
	if vert, _ := v.program.Paths(); vert != "" {
		err = v.program.ReloadFiles()
	} else {
		err = v.program.Reload(shaders.ModelVert, shaders.ModelFrag)
	}
	if err != nil {
		v.log.Warn("shader reload failed, keeping previous program", zap.Error(err))
		return
	}
	v.camera.ForceSetCamMatrix(v.program)
}

// screenshot saves the frame just rendered, before it is presented.
func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.Save(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) render() {
	v.renderer.Begin()

	v.program.Use()
	v.camera.SetCamMatrix(v.program)
	v.program.SetMat4(shaders.ModelUniform, mgl32.Ident4())
	v.program.SetVec3(shaders.LightPosUniform, mgl32.Vec3(v.cfg.Scene.Light))
	v.program.SetVec3(shaders.ViewPosUniform, v.camera.Position())
	v.program.SetVec3(shaders.LightColorUniform, lightColor)

	v.model.Draw(v.program)
}

// Close releases everything New created, in reverse order.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warn("closing shader watcher", zap.Error(err))
		}
	}
	if v.model != nil {
		v.model.Close()
	}
	if v.program != nil {
		v.program.Delete()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
