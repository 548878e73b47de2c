// Package camera provides fly-through and first-person cameras that feed a
// combined projection-view matrix to shader programs.
package camera

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gllessons/internal/engine/input"
)

// MatrixUniform is the shader uniform receiving the projection-view matrix.
const MatrixUniform = "camMatrix"

// ErrUnknownVariant is returned for an unrecognized camera variant name.
var ErrUnknownVariant = errors.New("unknown camera variant")

// Camera is a controllable viewpoint.
type Camera interface {
	// HandleWindowEvent reacts to resize and scroll events.
	HandleWindowEvent(ev input.Event, dt float64)
	// Update applies one frame of held input.
	Update(in input.State, dt float64)
	// SetCamMatrix uploads the matrix to p unless p already has it.
	SetCamMatrix(p Program)
	// ForceSetCamMatrix recomputes and uploads the matrix to p unconditionally.
	ForceSetCamMatrix(p Program)
	// Configure overrides tuning values. Zero fields are left unchanged.
	Configure(s Settings)

	Position() mgl32.Vec3
	Direction() mgl32.Vec3
	Up() mgl32.Vec3
	Orientation() (roll, pitch, yaw float32)
	FOV() float32
	Matrix() mgl32.Mat4
}

// Program is the part of a shader program the camera writes to.
type Program interface {
	ID() uint32
	Use()
	SetMat4(name string, m mgl32.Mat4)
}

// Settings holds camera tuning. Angles are in degrees, speeds per second.
type Settings struct {
	Speed            float32
	SprintMultiplier float32
	RollSpeed        float32
	Sensitivity      float32
	ZoomSensitivity  float32
	FOV              float32
	Near             float32
	Far              float32
}

// DefaultSettings returns the free camera tuning.
func DefaultSettings() Settings {
	return Settings{
		Speed:            1,
		SprintMultiplier: 5,
		RollSpeed:        25,
		Sensitivity:      2000,
		ZoomSensitivity:  100,
		FOV:              45,
		Near:             0.1,
		Far:              100,
	}
}

// merge returns s with every non-zero field of o applied.
func (s Settings) merge(o Settings) Settings {
	set := func(dst *float32, v float32) {
		if v != 0 {
			*dst = v
		}
	}
	set(&s.Speed, o.Speed)
	set(&s.SprintMultiplier, o.SprintMultiplier)
	set(&s.RollSpeed, o.RollSpeed)
	set(&s.Sensitivity, o.Sensitivity)
	set(&s.ZoomSensitivity, o.ZoomSensitivity)
	set(&s.FOV, o.FOV)
	set(&s.Near, o.Near)
	set(&s.Far, o.Far)
	return s
}

// Variant names a camera implementation.
type Variant string

const (
	VariantFree    Variant = "free"
	VariantFPS     Variant = "fps"
	VariantFreeEx3 Variant = "free_ex3"
)

// ParseVariant parses a variant name, ignoring case.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "free", "":
		return VariantFree, nil
	case "fps":
		return VariantFPS, nil
	case "free_ex3", "ex3":
		return VariantFreeEx3, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// New creates a camera of the given variant.
func New(v Variant, position mgl32.Vec3, roll, pitch, yaw float32, width, height int) (Camera, error) {
	switch v {
	case VariantFree:
		return NewFreeCamera(position, roll, pitch, yaw, width, height), nil
	case VariantFPS:
		return NewFPSCamera(position, roll, pitch, yaw, width, height), nil
	case VariantFreeEx3:
		return NewFreeCameraEx3(position, roll, pitch, yaw, width, height), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}
