package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FitToBounds returns a pose on the +Z side of the box, facing its centre,
// far enough that the box's bounding sphere fills a vertical field of view
// of fov degrees. Use it with yaw -90 and pitch 0.
func FitToBounds(minP, maxP mgl32.Vec3, fov float32) mgl32.Vec3 {
	center := minP.Add(maxP).Mul(0.5)
	radius := maxP.Sub(minP).Len() / 2
	if radius < 1e-6 {
		radius = 1
	}

	half := mgl32.DegToRad(mgl32.Clamp(fov, minFOV, maxFOV)) / 2
	distance := radius / math32.Sin(half)
	return center.Add(mgl32.Vec3{0, 0, distance})
}
