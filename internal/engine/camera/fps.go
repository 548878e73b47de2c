package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gllessons/internal/engine/input"
)

// DefaultFPSSpeed is the walking speed of an FPS camera.
const DefaultFPSSpeed = 10

// FPSCamera walks on the horizontal plane. Looking up or down does not
// change height, and it cannot roll.
type FPSCamera struct {
	base
}

// NewFPSCamera creates an FPS camera. Roll is kept as given but the camera
// never changes it.
func NewFPSCamera(position mgl32.Vec3, roll, pitch, yaw float32, width, height int) *FPSCamera {
	s := DefaultSettings()
	s.Speed = DefaultFPSSpeed
	c := &FPSCamera{base: newBase(VariantFPS, position, roll, pitch, yaw, width, height, s)}
	c.canRoll = false
	c.recompute()
	return c
}

// Update implements Camera.
func (c *FPSCamera) Update(in input.State, dt float64) {
	c.update(in, dt, c.move)
}

func (c *FPSCamera) move(in input.State, step float32) {
	dx, dz := c.direction.X(), c.direction.Z()
	l := math32.Hypot(dx, dz)
	if l < 1e-6 {
		return
	}
	dx, dz = dx/l, dz/l
	forward := mgl32.Vec3{dx, 0, dz}
	right := mgl32.Vec3{-dz, 0, dx}
	c.translate(in, forward, right, step)
}
