package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gllessons/internal/engine/mesh"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the box midpoint.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// extend grows b to include p.
func (b *Bounds) extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Bounds returns the box enclosing every mesh vertex. ok is false for a
// model without vertices.
func (m *Model) Bounds() (b Bounds, ok bool) {
	for _, msh := range m.meshes {
		for _, v := range msh.Vertices {
			if !ok {
				b = Bounds{Min: v.Position, Max: v.Position}
				ok = true
				continue
			}
			b.extend(v.Position)
		}
	}
	return b, ok
}

// GenerateNormals fills vertex normals from face normals for geometry that
// came without any. Each face adds its area-weighted normal to its three
// corners. Vertices touched only by degenerate faces get +Y.
func GenerateNormals(vertices []mesh.Vertex, indices []uint32) {
	sums := make([]mgl32.Vec3, len(vertices))
	for t := 0; t+2 < len(indices); t += 3 {
		i1, i2, i3 := indices[t], indices[t+1], indices[t+2]
		p1 := vertices[i1].Position
		e1 := vertices[i2].Position.Sub(p1)
		e2 := vertices[i3].Position.Sub(p1)
		n := e1.Cross(e2) // length is twice the face area
		sums[i1] = sums[i1].Add(n)
		sums[i2] = sums[i2].Add(n)
		sums[i3] = sums[i3].Add(n)
	}

	for i := range vertices {
		if sums[i].Len() < 1e-12 {
			vertices[i].Normal = mgl32.Vec3{0, 1, 0}
			continue
		}
		vertices[i].Normal = sums[i].Normalize()
	}
}
