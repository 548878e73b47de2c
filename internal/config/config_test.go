package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Faultbox/gllessons/internal/engine/input"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Backend != "sdl" {
		t.Errorf("expected backend 'sdl', got %s", cfg.Graphics.Backend)
	}
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Graphics.UpdateHz != 60 {
		t.Errorf("expected update rate 60, got %d", cfg.Graphics.UpdateHz)
	}

	if cfg.Camera.Variant != "free" {
		t.Errorf("expected camera 'free', got %s", cfg.Camera.Variant)
	}
	if cfg.Camera.Position != [3]float32{0, 0, 3} {
		t.Errorf("expected camera at (0,0,3), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.Yaw != -90 {
		t.Errorf("expected yaw -90, got %f", cfg.Camera.Yaw)
	}

	if cfg.Scene.Subdivide != 0 {
		t.Errorf("expected no subdivision, got %d", cfg.Scene.Subdivide)
	}
	if cfg.Controls[input.ActionForward] != "W" {
		t.Errorf("expected forward bound to W, got %q", cfg.Controls[input.ActionForward])
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  backend: glfw
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  update_hz: 120

camera:
  variant: fps
  position: [1, 2, 3]
  pitch: -10
  speed: 4
  fov: 60

scene:
  model: "models/crate.obj"
  subdivide: 2
  hot_reload: true

controls:
  forward: Up
  quit: Q

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Backend != "glfw" {
		t.Errorf("expected backend glfw, got %s", cfg.Graphics.Backend)
	}
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.UpdateHz != 120 {
		t.Errorf("expected update rate 120, got %d", cfg.Graphics.UpdateHz)
	}

	if cfg.Camera.Variant != "fps" {
		t.Errorf("expected camera fps, got %s", cfg.Camera.Variant)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected position (1,2,3), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.Yaw != -90 {
		t.Errorf("expected default yaw kept, got %f", cfg.Camera.Yaw)
	}
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOV)
	}

	if cfg.Scene.Model != "models/crate.obj" {
		t.Errorf("expected model models/crate.obj, got %s", cfg.Scene.Model)
	}
	if cfg.Scene.Subdivide != 2 {
		t.Errorf("expected subdivide 2, got %d", cfg.Scene.Subdivide)
	}

	// Overridden bindings replace, the rest keep their defaults.
	if cfg.Controls[input.ActionForward] != "Up" {
		t.Errorf("expected forward bound to Up, got %q", cfg.Controls[input.ActionForward])
	}
	if cfg.Controls[input.ActionQuit] != "Q" {
		t.Errorf("expected quit bound to Q, got %q", cfg.Controls[input.ActionQuit])
	}
	if cfg.Controls[input.ActionBackward] != "S" {
		t.Errorf("expected backward to keep S, got %q", cfg.Controls[input.ActionBackward])
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileUnknownAction(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("controls:\n  jump: Space\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for unknown action, got nil")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "scene flags",
			setup: func() {
				*flagModel = "cube.obj"
				*flagSubdivide = 3
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Model != "cube.obj" {
					t.Errorf("expected model cube.obj, got %s", cfg.Scene.Model)
				}
				if cfg.Scene.Subdivide != 3 {
					t.Errorf("expected subdivide 3, got %d", cfg.Scene.Subdivide)
				}
			},
			teardown: func() {
				*flagModel = ""
				*flagSubdivide = -1
			},
		},
		{
			name: "camera and backend flags",
			setup: func() {
				*flagCamera = "free_ex3"
				*flagBackend = "glfw"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Camera.Variant != "free_ex3" {
					t.Errorf("expected camera free_ex3, got %s", cfg.Camera.Variant)
				}
				if cfg.Graphics.Backend != "glfw" {
					t.Errorf("expected backend glfw, got %s", cfg.Graphics.Backend)
				}
			},
			teardown: func() {
				*flagCamera = ""
				*flagBackend = ""
			},
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file.
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.Model = "sponza.obj"
	cfg.Controls[input.ActionSprint] = "Right Shift"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}
	if loaded.Scene.Model != "sponza.obj" {
		t.Errorf("expected model sponza.obj, got %s", loaded.Scene.Model)
	}
	if loaded.Controls[input.ActionSprint] != "Right Shift" {
		t.Errorf("expected sprint bound to Right Shift, got %q", loaded.Controls[input.ActionSprint])
	}
}

func TestSaveWritesUserConfig(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir is only redirectable through XDG_CONFIG_HOME on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Camera.Variant = "fps"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, UserConfigPath()); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}
	if loaded.Camera.Variant != "fps" {
		t.Errorf("expected variant fps, got %s", loaded.Camera.Variant)
	}
	if got := findConfigFile(); got != UserConfigPath() && got != "./config.yaml" {
		t.Errorf("findConfigFile() = %s, want %s", got, UserConfigPath())
	}
}

func TestSaveRequested(t *testing.T) {
	if SaveRequested() {
		t.Error("expected SaveRequested false by default")
	}
	*flagSaveConfig = true
	defer func() { *flagSaveConfig = false }()
	if !SaveRequested() {
		t.Error("expected SaveRequested true after --save-config")
	}
}

func TestLoggingOptions(t *testing.T) {
	data := []byte(`logging:
  level: warn
  log_file: viewer.log
  max_size_mb: 5
  max_backups: 1
  compress: false
  components:
    camera: debug
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}

	opts := cfg.Logging.Options()
	if opts.Level != "warn" || !opts.Console {
		t.Errorf("unexpected level/console: %+v", opts)
	}
	if opts.File.Path != "viewer.log" {
		t.Errorf("expected file viewer.log, got %s", opts.File.Path)
	}
	if opts.File.MaxSizeMB != 5 || opts.File.MaxBackups != 1 {
		t.Errorf("expected rotation (5, 1), got (%d, %d)", opts.File.MaxSizeMB, opts.File.MaxBackups)
	}
	// Unset keys keep the defaults.
	if opts.File.MaxAgeDays != 14 {
		t.Errorf("expected default max age 14, got %d", opts.File.MaxAgeDays)
	}
	if opts.File.Compress {
		t.Error("expected compress false from file")
	}
	if opts.Components["camera"] != "debug" {
		t.Errorf("expected camera override debug, got %q", opts.Components["camera"])
	}

	if got := Default().Logging.Options(); got.File.Path != "" {
		t.Errorf("expected no file sink by default, got %s", got.File.Path)
	}
}
