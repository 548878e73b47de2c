// Package model loads Wavefront OBJ models into meshes with deduplicated textures.
package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/engine/mesh"
	"github.com/Faultbox/gllessons/internal/engine/texture"
	"github.com/Faultbox/gllessons/internal/logger"
	"github.com/Faultbox/gllessons/pkg/formats"
)

// EmissiveMapKey is the MTL statement exporters use for emission maps.
// It is not part of the original MTL format, so the parser keeps it
// among the unknown parameters.
const EmissiveMapKey = "map_Ke"

// ShininessScale maps MTL Ns (0-1000) to the shader's 0-128 exponent range.
const ShininessScale = 128.0 / 1000.0

// Model is a set of meshes loaded from one OBJ file.
type Model struct {
	meshDev  mesh.Device
	textures *texture.Cache
	meshes   []*mesh.Mesh
	dir      string
}

// New creates an empty model. Meshes are uploaded through meshDev and
// textures through texDev.
func New(meshDev mesh.Device, texDev texture.Device) *Model {
	return &Model{
		meshDev:  meshDev,
		textures: texture.NewCache(texDev),
	}
}

// LoadModel parses the OBJ at path with its material libraries and builds
// one mesh per sub-object. On error the model is left without meshes.
func (m *Model) LoadModel(path string) error {
	log := logger.Named("model")
	log.Info("loading model", zap.String("path", path))

	obj, err := formats.LoadOBJ(path)
	if err != nil {
		return fmt.Errorf("loading model %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)

	for i := range obj.Objects {
		o := &obj.Objects[i]

		var materials []mesh.Material
		if o.MaterialID != formats.NoMaterial {
			materials, err = m.resolveMaterial(&obj.Materials[o.MaterialID])
			if err != nil {
				m.closeMeshes()
				return fmt.Errorf("model %s, object %q: %w", path, o.Name, err)
			}
		} else if o.MaterialName != "" {
			log.Warn("material not found",
				zap.String("object", o.Name),
				zap.String("material", o.MaterialName))
		}

		vertices := interleave(o)
		indices := append([]uint32(nil), o.Indices...)
		if !o.HasNormals {
			GenerateNormals(vertices, indices)
		}

		msh := mesh.New(m.meshDev, vertices, indices, materials)
		m.meshes = append(m.meshes, msh)

		log.Debug("mesh loaded",
			zap.String("object", o.Name),
			zap.Int("vertices", o.VertexCount()),
			zap.Int("triangles", o.TriangleCount()),
			zap.Int("materials", len(materials)),
			zap.Bool("generated_normals", !o.HasNormals))
	}

	log.Info("model loaded",
		zap.String("path", path),
		zap.Int("meshes", len(m.meshes)),
		zap.Int("textures", m.textures.Len()))
	return nil
}

// interleave packs an object's attribute arrays into vertices.
func interleave(o *formats.OBJObject) []mesh.Vertex {
	n := o.VertexCount()
	vertices := make([]mesh.Vertex, n)
	for i := 0; i < n; i++ {
		v := &vertices[i]
		v.Position = mgl32.Vec3{o.Positions[3*i], o.Positions[3*i+1], o.Positions[3*i+2]}
		if len(o.Normals) >= 3*(i+1) {
			v.Normal = mgl32.Vec3{o.Normals[3*i], o.Normals[3*i+1], o.Normals[3*i+2]}
		}
		if len(o.TexCoords) >= 2*(i+1) {
			v.TexCoords = mgl32.Vec2{o.TexCoords[2*i], o.TexCoords[2*i+1]}
		}
	}
	return vertices
}

// resolveMaterial turns an MTL material into mesh materials in the order
// diffuse, specular, emissive, shininess.
func (m *Model) resolveMaterial(mtl *formats.MTLMaterial) ([]mesh.Material, error) {
	var out []mesh.Material

	maps := []struct {
		path string
		kind mesh.Kind
	}{
		{mtl.DiffuseTexture, mesh.KindDiffuse},
		{mtl.SpecularTexture, mesh.KindSpecular},
		{mtl.TextureParam(EmissiveMapKey), mesh.KindEmissive},
	}
	for _, tm := range maps {
		if tm.path == "" {
			continue
		}
		mat, err := m.LoadTextureIfRequired(tm.path, tm.kind)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", mtl.Name, err)
		}
		out = append(out, mat)
	}

	if mtl.Shininess > 0 {
		out = append(out, mesh.PropertyMaterial(mtl.Shininess*ShininessScale, mesh.KindShininess))
	}
	return out, nil
}

// LoadTextureIfRequired returns a material for the texture at path, relative
// to the model's directory. A path seen before reuses the same GPU texture.
func (m *Model) LoadTextureIfRequired(path string, kind mesh.Kind) (mesh.Material, error) {
	if !kind.IsTextureKind() {
		return mesh.Material{}, fmt.Errorf("texture of non-texture kind %s", kind)
	}

	full := filepath.Join(m.dir, filepath.FromSlash(strings.ReplaceAll(path, `\`, "/")))
	if h, ok := m.textures.Get(full); ok {
		logger.Named("model").Debug("texture reused",
			zap.String("path", h.Path()),
			zap.String("kind", kind.String()))
		return mesh.TextureMaterial(h, path, kind), nil
	}
	h, err := m.textures.Load(full)
	if err != nil {
		return mesh.Material{}, err
	}
	return mesh.TextureMaterial(h, path, kind), nil
}

// SubdivideMeshes applies n passes of midpoint subdivision to every mesh.
func (m *Model) SubdivideMeshes(n int) {
	for _, msh := range m.meshes {
		msh.Subdivide(n)
	}
}

// Draw draws every mesh. The shader program must already be in use.
func (m *Model) Draw(u mesh.Uniforms) {
	for _, msh := range m.meshes {
		msh.Draw(u)
	}
}

// Meshes returns the loaded meshes.
func (m *Model) Meshes() []*mesh.Mesh {
	return m.meshes
}

// TextureCount returns the number of distinct textures loaded.
func (m *Model) TextureCount() int {
	return m.textures.Len()
}

// Textures returns the model's distinct textures ordered by path.
func (m *Model) Textures() []*texture.Handle {
	return m.textures.Handles()
}

// Close frees every mesh and texture. Each GPU texture is deleted exactly
// once, after the last mesh using it is gone.
func (m *Model) Close() {
	m.closeMeshes()
	m.textures.Close()
}

func (m *Model) closeMeshes() {
	for _, msh := range m.meshes {
		msh.Close()
	}
	m.meshes = nil
}
