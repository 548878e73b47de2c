package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/logger"
)

// Geometry errors reported by Validate.
var (
	ErrIndexCount = errors.New("index count not a multiple of 3")
	ErrIndexRange = errors.New("index out of range")
)

// DefaultShininess is bound before a mesh's own materials on every draw.
const DefaultShininess = 32

// Buffers is the GPU object set backing one mesh.
type Buffers struct {
	VAO, VBO, EBO uint32
}

// Device creates, draws and frees mesh buffers.
type Device interface {
	CreateBuffers(vertices []Vertex, indices []uint32) Buffers
	DeleteBuffers(b Buffers)
	// BindTexture binds a 2D texture to a texture unit.
	BindTexture(unit uint32, id uint32)
	DrawTriangles(b Buffers, indexCount int32)
}

// Uniforms sets material uniforms on the active shader program.
type Uniforms interface {
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec4(name string, v mgl32.Vec4)
}

// Mesh is one drawable unit of geometry with its material bindings.
type Mesh struct {
	Vertices  []Vertex
	Indices   []uint32 // triangle list
	Materials []Material

	dev     Device
	buffers Buffers
	closed  bool
}

// New uploads the geometry once and retains every texture the materials
// reference. Indices must form whole triangles within range of vertices;
// use Validate when the data comes from an untrusted source.
func New(dev Device, vertices []Vertex, indices []uint32, materials []Material) *Mesh {
	m := &Mesh{
		Vertices:  vertices,
		Indices:   indices,
		Materials: materials,
		dev:       dev,
	}
	for _, mat := range materials {
		if mat.IsTexture() {
			mat.Texture.Retain()
		}
	}
	m.buffers = dev.CreateBuffers(vertices, indices)
	return m
}

// Draw binds the mesh's materials and issues one indexed draw. The shader
// program must already be in use.
func (m *Mesh) Draw(u Uniforms) {
	// Clear bindings a previously drawn mesh may have left behind.
	u.SetInt("material.texture_diffuse0", 0)
	u.SetInt("material.texture_specular0", 0)
	u.SetInt("material.texture_emissive0", 0)
	u.SetFloat("material.shininess", DefaultShininess)

	var counts [KindShininess]int
	unit := uint32(1) // unit 0 stays unbound
	for _, mat := range m.Materials {
		if !mat.IsTexture() {
			if mat.Kind == KindShininess {
				u.SetFloat(mat.UniformName(0), mat.Value)
			}
			continue
		}
		ordinal := counts[mat.Kind]
		counts[mat.Kind]++

		m.dev.BindTexture(unit, mat.Texture.ID())
		u.SetInt(mat.UniformName(ordinal), int32(unit))
		unit++
	}

	u.SetInt("material.use_texture_diff", boolToInt(counts[KindDiffuse] > 0))
	u.SetInt("material.use_texture_spec", boolToInt(counts[KindSpecular] > 0))
	u.SetInt("material.use_texture_emis", boolToInt(counts[KindEmissive] > 0))
	if counts[KindDiffuse] == 0 {
		u.SetVec4("material.fallback_color", mgl32.Vec4{1, 1, 1, 1})
	}

	m.dev.DrawTriangles(m.buffers, int32(len(m.Indices)))
}

// Subdivide applies n passes of midpoint subdivision and re-uploads the
// result. See SubdivideGeometry.
func (m *Mesh) Subdivide(n int) {
	if n <= 0 || m.closed {
		return
	}
	log := logger.Named("mesh")
	verts, tris := m.Stats()
	log.Info("subdividing mesh",
		zap.Int("passes", n),
		zap.Int("vertices", verts),
		zap.Int("triangles", tris))

	m.Vertices, m.Indices = SubdivideGeometry(m.Vertices, m.Indices, n)

	m.dev.DeleteBuffers(m.buffers)
	m.buffers = m.dev.CreateBuffers(m.Vertices, m.Indices)

	verts, tris = m.Stats()
	log.Info("mesh subdivided",
		zap.Int("vertices", verts),
		zap.Int("triangles", tris))
}

// Validate checks that the indices form whole triangles within range.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrIndexCount, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: indices[%d] = %d, %d vertices", ErrIndexRange, i, idx, len(m.Vertices))
		}
	}
	return nil
}

// Stats returns the vertex and triangle counts.
func (m *Mesh) Stats() (vertices, triangles int) {
	return len(m.Vertices), len(m.Indices) / 3
}

// Buffers returns the GPU buffers currently backing the mesh.
func (m *Mesh) Buffers() Buffers {
	return m.buffers
}

// Close frees the GPU buffers and releases texture references.
// Calling Close more than once is a no-op.
func (m *Mesh) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.dev.DeleteBuffers(m.buffers)
	m.buffers = Buffers{}
	for _, mat := range m.Materials {
		if mat.IsTexture() {
			mat.Texture.Release()
		}
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
