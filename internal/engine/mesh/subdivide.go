package mesh

import "math"

// positionKey identifies a vertex by the exact bits of its position.
type positionKey [3]uint32

func keyOf(p [3]float32) positionKey {
	var k positionKey
	for i, f := range p {
		if f == 0 {
			f = 0 // fold -0 into +0
		}
		k[i] = math.Float32bits(f)
	}
	return k
}

// vertexSet collects unique vertices for one subdivision pass.
type vertexSet struct {
	vertices []Vertex
	index    map[positionKey]uint32
}

func newVertexSet(capacity int) *vertexSet {
	return &vertexSet{
		vertices: make([]Vertex, 0, capacity),
		index:    make(map[positionKey]uint32, capacity),
	}
}

// add returns the index of v, reusing an existing vertex at the same position.
// The first vertex seen at a position wins; later normals and UVs are dropped.
func (s *vertexSet) add(v Vertex) uint32 {
	k := keyOf(v.Position)
	if idx, ok := s.index[k]; ok {
		return idx
	}
	idx := uint32(len(s.vertices))
	s.vertices = append(s.vertices, v)
	s.index[k] = idx
	return idx
}

// SubdivideGeometry applies n passes of midpoint subdivision. Each triangle
// (v1, v2, v3) becomes (v1,a,c) (v2,b,a) (v3,c,b) (a,b,c) where a, b and c
// are the midpoints of v1v2, v2v3 and v3v1. Vertices are shared by position.
// n <= 0 returns the input unchanged.
func SubdivideGeometry(vertices []Vertex, indices []uint32, n int) ([]Vertex, []uint32) {
	for pass := 0; pass < n; pass++ {
		set := newVertexSet(len(vertices) * 2)
		out := make([]uint32, 0, len(indices)*4)

		for t := 0; t+2 < len(indices); t += 3 {
			v1 := vertices[indices[t]]
			v2 := vertices[indices[t+1]]
			v3 := vertices[indices[t+2]]

			i1 := set.add(v1)
			i2 := set.add(v2)
			i3 := set.add(v3)
			a := set.add(Midpoint(v1, v2))
			b := set.add(Midpoint(v2, v3))
			c := set.add(Midpoint(v3, v1))

			out = append(out,
				i1, a, c,
				i2, b, a,
				i3, c, b,
				a, b, c,
			)
		}

		vertices, indices = set.vertices, out
	}
	return vertices, indices
}
