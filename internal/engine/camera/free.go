package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gllessons/internal/engine/input"
)

// FreeCamera flies in the direction it faces. Movement keys translate,
// roll keys rotate around the view axis, and holding the look button
// steers pitch and yaw with the mouse.
type FreeCamera struct {
	base
}

// NewFreeCamera creates a free camera. Angles are in degrees.
func NewFreeCamera(position mgl32.Vec3, roll, pitch, yaw float32, width, height int) *FreeCamera {
	c := &FreeCamera{base: newBase(VariantFree, position, roll, pitch, yaw, width, height, DefaultSettings())}
	c.recompute()
	return c
}

// Update implements Camera.
func (c *FreeCamera) Update(in input.State, dt float64) {
	c.update(in, dt, c.move)
}

func (c *FreeCamera) move(in input.State, step float32) {
	right := c.direction.Cross(c.up).Normalize()
	c.translate(in, c.direction, right, step)
}
