// Package mesh provides GPU-backed triangle meshes with material bindings
// and midpoint subdivision.
package mesh

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one interleaved vertex as uploaded to the GPU.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoords mgl32.Vec2
}

// Vertex layout for attribute pointers (locations 0, 1, 2).
const (
	VertexSize      = int(unsafe.Sizeof(Vertex{}))
	PositionOffset  = int(unsafe.Offsetof(Vertex{}.Position))
	NormalOffset    = int(unsafe.Offsetof(Vertex{}.Normal))
	TexCoordsOffset = int(unsafe.Offsetof(Vertex{}.TexCoords))
)

// Midpoint returns the vertex halfway between a and b; every attribute is
// the arithmetic mean of its parents.
func Midpoint(a, b Vertex) Vertex {
	return Vertex{
		Position:  a.Position.Add(b.Position).Mul(0.5),
		Normal:    a.Normal.Add(b.Normal).Mul(0.5),
		TexCoords: a.TexCoords.Add(b.TexCoords).Mul(0.5),
	}
}
