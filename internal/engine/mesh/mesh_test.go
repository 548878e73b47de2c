package mesh

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/gllessons/internal/engine/texture"
)

// fakeDevice records buffer and texture traffic.
type fakeDevice struct {
	next     uint32
	created  []Buffers
	deleted  []Buffers
	bound    map[uint32]uint32 // unit -> texture
	draws    []int32
	texFreed map[uint32]int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{bound: make(map[uint32]uint32), texFreed: make(map[uint32]int)}
}

func (d *fakeDevice) CreateBuffers(vertices []Vertex, indices []uint32) Buffers {
	d.next += 3
	b := Buffers{VAO: d.next - 2, VBO: d.next - 1, EBO: d.next}
	d.created = append(d.created, b)
	return b
}

func (d *fakeDevice) DeleteBuffers(b Buffers) { d.deleted = append(d.deleted, b) }
func (d *fakeDevice) BindTexture(unit uint32, id uint32) { d.bound[unit] = id }
func (d *fakeDevice) DrawTriangles(b Buffers, n int32) { d.draws = append(d.draws, n) }
func (d *fakeDevice) UploadTexture(img *image.RGBA) uint32 { return 0 }
func (d *fakeDevice) DeleteTexture(id uint32) { d.texFreed[id]++ }

// fakeUniforms keeps the last value per uniform name.
type fakeUniforms struct {
	ints   map[string]int32
	floats map[string]float32
	vec4s  map[string]mgl32.Vec4
}

func newFakeUniforms() *fakeUniforms {
	return &fakeUniforms{
		ints:   make(map[string]int32),
		floats: make(map[string]float32),
		vec4s:  make(map[string]mgl32.Vec4),
	}
}

func (u *fakeUniforms) SetInt(name string, v int32) { u.ints[name] = v }
func (u *fakeUniforms) SetFloat(name string, v float32) { u.floats[name] = v }
func (u *fakeUniforms) SetVec4(name string, v mgl32.Vec4) { u.vec4s[name] = v }

func vert(x, y, z float32) Vertex {
	return Vertex{Position: mgl32.Vec3{x, y, z}, Normal: mgl32.Vec3{0, 0, 1}}
}

func triangle() ([]Vertex, []uint32) {
	return []Vertex{vert(0, 0, 0), vert(1, 0, 0), vert(0, 1, 0)}, []uint32{0, 1, 2}
}

// tetrahedron returns a closed mesh: every edge is shared by two faces.
func tetrahedron() ([]Vertex, []uint32) {
	v := []Vertex{vert(0, 0, 0), vert(1, 0, 0), vert(0, 1, 0), vert(0, 0, 1)}
	i := []uint32{
		0, 2, 1,
		0, 1, 3,
		1, 2, 3,
		2, 0, 3,
	}
	return v, i
}

type edge struct{ a, b uint32 }

func edgeCounts(indices []uint32) map[edge]int {
	counts := make(map[edge]int)
	for t := 0; t < len(indices); t += 3 {
		tri := indices[t : t+3]
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			counts[edge{a, b}]++
		}
	}
	return counts
}

func TestSubdivideGeometry_Counts(t *testing.T) {
	tests := []struct {
		name      string
		passes    int
		wantVerts int
		wantTris  int
	}{
		{"zero passes", 0, 3, 1},
		{"one pass", 1, 6, 4},
		{"two passes", 2, 15, 16},
		{"three passes", 3, 45, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, i := triangle()
			v, i = SubdivideGeometry(v, i, tt.passes)
			if len(v) != tt.wantVerts {
				t.Errorf("vertices = %d, want %d", len(v), tt.wantVerts)
			}
			if len(i)/3 != tt.wantTris {
				t.Errorf("triangles = %d, want %d", len(i)/3, tt.wantTris)
			}
		})
	}
}

func TestSubdivideGeometry_TriangleOrder(t *testing.T) {
	v, i := triangle()
	v, i = SubdivideGeometry(v, i, 1)

	// Corners first, then midpoints a=(v1,v2), b=(v2,v3), c=(v3,v1).
	want := []uint32{
		0, 3, 5,
		1, 4, 3,
		2, 5, 4,
		3, 4, 5,
	}
	assert.Equal(t, want, i)
	assert.Equal(t, mgl32.Vec3{0.5, 0, 0}, v[3].Position)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, v[4].Position)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, v[5].Position)
}

func TestSubdivideGeometry_ConvexHull(t *testing.T) {
	v, i := triangle()
	v, i = SubdivideGeometry(v, i, 3)

	// Original triangle spans x >= 0, y >= 0, x + y <= 1 in the z = 0 plane.
	const eps = 1e-6
	for _, idx := range i {
		p := v[idx].Position
		assert.InDelta(t, 0, p.Z(), eps)
		assert.GreaterOrEqual(t, p.X(), float32(-eps))
		assert.GreaterOrEqual(t, p.Y(), float32(-eps))
		assert.LessOrEqual(t, p.X()+p.Y(), float32(1+eps))
	}
}

func TestSubdivideGeometry_ClosedStaysClosed(t *testing.T) {
	for passes := 1; passes <= 3; passes++ {
		v, i := tetrahedron()
		v, i = SubdivideGeometry(v, i, passes)

		for e, n := range edgeCounts(i) {
			if n != 2 {
				t.Fatalf("passes=%d: edge %v shared by %d triangles, want 2", passes, e, n)
			}
		}
		// Euler characteristic of a sphere: V - E + F = 2.
		edges := len(edgeCounts(i))
		if got := len(v) - edges + len(i)/3; got != 2 {
			t.Errorf("passes=%d: V-E+F = %d, want 2", passes, got)
		}
	}
}

func TestSubdivideGeometry_AveragesAttributes(t *testing.T) {
	v := []Vertex{
		{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{1, 0, 0}, TexCoords: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{2, 0, 0}, Normal: mgl32.Vec3{0, 1, 0}, TexCoords: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{0, 2, 0}, Normal: mgl32.Vec3{0, 0, 1}, TexCoords: mgl32.Vec2{0, 1}},
	}
	out, _ := SubdivideGeometry(v, []uint32{0, 1, 2}, 1)

	a := out[3]
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, a.Position)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, a.Normal)
	assert.Equal(t, mgl32.Vec2{0.5, 0}, a.TexCoords)
}

func TestSubdivideGeometry_NegativeZeroShared(t *testing.T) {
	negZero := float32(math.Copysign(0, -1))
	v := []Vertex{
		vert(0, 0, 0), vert(1, 0, 0), vert(0, 1, 0),
		vert(negZero, 0, 0), vert(0, 1, 0), vert(-1, 0, 0),
	}
	out, _ := SubdivideGeometry(v, []uint32{0, 1, 2, 3, 5, 4}, 1)

	// Two triangles sharing the edge (0,0,0)-(0,1,0): 4 corners + 5 midpoints.
	assert.Len(t, out, 9)
}

func TestMeshDraw_Uniforms(t *testing.T) {
	dev := newFakeDevice()
	diff0 := texture.NewHandle(dev, 10, "d0.png")
	spec0 := texture.NewHandle(dev, 11, "s0.png")
	diff1 := texture.NewHandle(dev, 12, "d1.png")

	v, i := triangle()
	m := New(dev, v, i, []Material{
		TextureMaterial(diff0, "d0.png", KindDiffuse),
		TextureMaterial(spec0, "s0.png", KindSpecular),
		PropertyMaterial(64, KindShininess),
		TextureMaterial(diff1, "d1.png", KindDiffuse),
	})
	u := newFakeUniforms()
	m.Draw(u)

	assert.Equal(t, int32(1), u.ints["material.texture_diffuse0"])
	assert.Equal(t, int32(2), u.ints["material.texture_specular0"])
	assert.Equal(t, int32(3), u.ints["material.texture_diffuse1"])
	assert.Equal(t, int32(0), u.ints["material.texture_emissive0"])
	assert.Equal(t, float32(64), u.floats["material.shininess"])

	assert.Equal(t, int32(1), u.ints["material.use_texture_diff"])
	assert.Equal(t, int32(1), u.ints["material.use_texture_spec"])
	assert.Equal(t, int32(0), u.ints["material.use_texture_emis"])
	_, fallback := u.vec4s["material.fallback_color"]
	assert.False(t, fallback, "fallback color set despite diffuse texture")

	assert.Equal(t, uint32(10), dev.bound[1])
	assert.Equal(t, uint32(11), dev.bound[2])
	assert.Equal(t, uint32(12), dev.bound[3])
	_, unit0 := dev.bound[0]
	assert.False(t, unit0, "texture unit 0 must stay unused")

	assert.Equal(t, []int32{3}, dev.draws)
}

func TestMeshDraw_ResetsStaleBindings(t *testing.T) {
	dev := newFakeDevice()
	v, i := triangle()
	emis := texture.NewHandle(dev, 5, "glow.png")

	first := New(dev, v, i, []Material{
		TextureMaterial(emis, "glow.png", KindEmissive),
		PropertyMaterial(8, KindShininess),
	})
	plain := New(dev, v, i, nil)

	u := newFakeUniforms()
	first.Draw(u)
	require.Equal(t, int32(1), u.ints["material.texture_emissive0"])

	plain.Draw(u)
	assert.Equal(t, int32(0), u.ints["material.texture_emissive0"])
	assert.Equal(t, float32(DefaultShininess), u.floats["material.shininess"])
	assert.Equal(t, int32(0), u.ints["material.use_texture_emis"])
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, u.vec4s["material.fallback_color"])
}

func TestMeshSubdivide_ReuploadsOnce(t *testing.T) {
	dev := newFakeDevice()
	v, i := triangle()
	m := New(dev, v, i, nil)
	original := m.Buffers()

	m.Subdivide(2)

	verts, tris := m.Stats()
	assert.Equal(t, 15, verts)
	assert.Equal(t, 16, tris)
	assert.Len(t, dev.created, 2)
	assert.Equal(t, []Buffers{original}, dev.deleted)
	assert.NotEqual(t, original, m.Buffers())
	assert.NoError(t, m.Validate())

	m.Subdivide(0)
	assert.Len(t, dev.created, 2)
}

func TestMeshClose_ReleasesOnce(t *testing.T) {
	dev := newFakeDevice()
	h := texture.NewHandle(dev, 9, "a.png") // owner reference

	v, i := triangle()
	m1 := New(dev, v, i, []Material{TextureMaterial(h, "a.png", KindDiffuse)})
	m2 := New(dev, v, i, []Material{TextureMaterial(h, "a.png", KindDiffuse)})
	require.Equal(t, 3, h.Refs())

	m1.Close()
	m1.Close()
	assert.Len(t, dev.deleted, 1)
	assert.Equal(t, 2, h.Refs())

	h.Release()
	assert.Zero(t, dev.texFreed[9])

	m2.Close()
	assert.Equal(t, 1, dev.texFreed[9])
	assert.Len(t, dev.deleted, 2)
}

func TestMeshValidate(t *testing.T) {
	dev := newFakeDevice()
	v, _ := triangle()

	tests := []struct {
		name    string
		indices []uint32
		want    error
	}{
		{"valid", []uint32{0, 1, 2}, nil},
		{"partial triangle", []uint32{0, 1}, ErrIndexCount},
		{"out of range", []uint32{0, 1, 3}, ErrIndexRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(dev, v, tt.indices, nil)
			err := m.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestMaterialHelpers(t *testing.T) {
	dev := newFakeDevice()
	tex := TextureMaterial(texture.NewHandle(dev, 1, "x.png"), "x.png", KindSpecular)
	prop := PropertyMaterial(16, KindShininess)

	assert.True(t, tex.IsTexture())
	assert.False(t, prop.IsTexture())
	assert.True(t, tex.IsPathEq("x.png"))
	assert.False(t, tex.IsPathEq("y.png"))
	assert.False(t, prop.IsPathEq(""))

	assert.Equal(t, "material.texture_specular2", tex.UniformName(2))
	assert.Equal(t, "material.shininess", prop.UniformName(5))
}

func TestVertexLayout(t *testing.T) {
	assert.Equal(t, 32, VertexSize)
	assert.Equal(t, 0, PositionOffset)
	assert.Equal(t, 12, NormalOffset)
	assert.Equal(t, 24, TexCoordsOffset)
}
