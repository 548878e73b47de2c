// Package config handles viewer configuration loading and management.
package config

import (
	"github.com/Faultbox/gllessons/internal/engine/input"
	"github.com/Faultbox/gllessons/internal/logger"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Scene    SceneConfig    `yaml:"scene"`
	Controls input.Bindings `yaml:"controls"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Backend    string     `yaml:"backend"` // "sdl" or "glfw"
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	UpdateHz   int        `yaml:"update_hz"` // Camera update rate
	Wireframe  bool       `yaml:"wireframe"`
	ClearColor [4]float32 `yaml:"clear_color"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// CameraConfig holds the initial camera pose and tuning.
// Zero tuning values keep the variant's defaults.
type CameraConfig struct {
	Variant  string     `yaml:"variant"` // "free", "fps" or "free_ex3"
	Position [3]float32 `yaml:"position"`
	Roll     float32    `yaml:"roll"`
	Pitch    float32    `yaml:"pitch"`
	Yaw      float32    `yaml:"yaw"`

	Speed            float32 `yaml:"speed"`
	SprintMultiplier float32 `yaml:"sprint_multiplier"`
	RollSpeed        float32 `yaml:"roll_speed"`
	Sensitivity      float32 `yaml:"sensitivity"`
	ZoomSensitivity  float32 `yaml:"zoom_sensitivity"`
	FOV              float32 `yaml:"fov"`
	Near             float32 `yaml:"near"`
	Far              float32 `yaml:"far"`
}

// SceneConfig holds what the viewer loads.
type SceneConfig struct {
	Model          string     `yaml:"model"`     // Path to an OBJ file
	Subdivide      int        `yaml:"subdivide"` // Midpoint subdivision passes after load
	VertexShader   string     `yaml:"vertex_shader"`
	FragmentShader string     `yaml:"fragment_shader"`
	HotReload      bool       `yaml:"hot_reload"`
	Light          [3]float32 `yaml:"light"` // Light position in world space
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`

	// Rotation of LogFile.
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`

	// Components overrides the level per logger name, e.g. camera: debug.
	Components map[string]string `yaml:"components,omitempty"`
}

// Options converts the settings into logger options with console output.
func (l LoggingConfig) Options() logger.Options {
	opts := logger.Options{
		Level:      l.Level,
		Console:    true,
		Components: l.Components,
	}
	if l.LogFile != "" {
		opts.File = logger.FileConfig{
			Path:       l.LogFile,
			MaxSizeMB:  l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAgeDays: l.MaxAgeDays,
			Compress:   l.Compress,
		}
	}
	return opts
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Backend:    "sdl",
			Title:      "gllessons",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			UpdateHz:   60,
			ClearColor: [4]float32{0.1, 0.1, 0.12, 1.0},

			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Variant:  "free",
			Position: [3]float32{0, 0, 3},
			Yaw:      -90,
		},
		Scene: SceneConfig{
			Model: "assets/backpack/backpack.obj",
			Light: [3]float32{1.2, 1.0, 2.0},
		},
		Controls: input.DefaultBindings(),
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}
