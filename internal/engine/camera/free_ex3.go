package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gllessons/internal/engine/input"
)

// FreeCameraEx3 behaves like FreeCamera but assembles its view matrix from
// the right, up and front basis vectors instead of a look-at helper.
type FreeCameraEx3 struct {
	base
}

// NewFreeCameraEx3 creates a free camera with a hand-built view matrix.
func NewFreeCameraEx3(position mgl32.Vec3, roll, pitch, yaw float32, width, height int) *FreeCameraEx3 {
	c := &FreeCameraEx3{base: newBase(VariantFreeEx3, position, roll, pitch, yaw, width, height, DefaultSettings())}
	c.view = (*base).basisView
	c.recompute()
	return c
}

// Update implements Camera.
func (c *FreeCameraEx3) Update(in input.State, dt float64) {
	c.update(in, dt, c.move)
}

func (c *FreeCameraEx3) move(in input.State, step float32) {
	right := c.direction.Cross(c.up).Normalize()
	c.translate(in, c.direction, right, step)
}
