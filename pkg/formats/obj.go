// Wavefront OBJ geometry. Decoding is done by g3n's loader; this file
// flattens its faces into per-object triangle lists.
package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	wavefront "github.com/g3n/engine/loader/obj"
)

// OBJ format errors.
var (
	ErrInvalidFace      = errors.New("invalid OBJ face")
	ErrIndexOutOfRange  = errors.New("OBJ index out of range")
	ErrInvalidStatement = errors.New("invalid OBJ statement")
)

// NoMaterial is the MaterialID of an object without a bound material.
const NoMaterial = -1

// OBJObject is one drawable sub-object of an OBJ file, already triangulated
// and flattened to a single index stream.
type OBJObject struct {
	Name string

	// Per-vertex attributes. Positions and Normals hold 3 floats per vertex,
	// TexCoords 2. Missing normals/texcoords are zero-filled.
	Positions []float32
	Normals   []float32
	TexCoords []float32

	// Triangle list into the vertex arrays.
	Indices []uint32

	// HasNormals is set when any face referenced a vn normal.
	HasNormals bool

	MaterialName string
	MaterialID   int // Index into OBJ.Materials, NoMaterial if unbound
}

// VertexCount returns the number of vertices in the object.
func (o *OBJObject) VertexCount() int {
	return len(o.Positions) / 3
}

// TriangleCount returns the number of triangles in the object.
func (o *OBJObject) TriangleCount() int {
	return len(o.Indices) / 3
}

// OBJ represents a parsed OBJ file.
type OBJ struct {
	Objects      []OBJObject
	Materials    []MTLMaterial
	MaterialLibs []string // mtllib references, relative to the OBJ file
}

// MaterialByName returns the index of the named material, or NoMaterial.
func (o *OBJ) MaterialByName(name string) int {
	for i := range o.Materials {
		if o.Materials[i].Name == name {
			return i
		}
	}
	return NoMaterial
}

// LoadOBJ parses the OBJ file at path and every material library it references.
// Material libraries are resolved relative to the OBJ's directory.
func LoadOBJ(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	o, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, lib := range o.MaterialLibs {
		mats, err := LoadMTL(filepath.Join(dir, lib))
		if err != nil {
			return nil, fmt.Errorf("material library %s: %w", lib, err)
		}
		o.Materials = append(o.Materials, mats...)
	}
	o.resolveMaterials()

	return o, nil
}

// ParseOBJ parses OBJ geometry from r. Material libraries are recorded in
// MaterialLibs but not loaded; use LoadOBJ for that.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	libs, err := materialLibs(data)
	if err != nil {
		return nil, err
	}

	// Materials are read by ParseMTL, so the decoder gets an empty library.
	dec, err := wavefront.DecodeReader(bytes.NewReader(data), strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatement, err)
	}

	out := &OBJ{MaterialLibs: libs}
	for i := range dec.Objects {
		objs, err := flatten(dec, &dec.Objects[i])
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", dec.Objects[i].Name, err)
		}
		out.Objects = append(out.Objects, objs...)
	}
	out.resolveMaterials()
	return out, nil
}

// materialLibs lists the mtllib references of OBJ source, in file order.
func materialLibs(data []byte) ([]string, error) {
	var libs []string
	err := scanStatements(bytes.NewReader(data), func(key string, args []string) error {
		if key != "mtllib" {
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("%w: mtllib without file", ErrInvalidStatement)
		}
		libs = append(libs, strings.Join(args, " "))
		return nil
	})
	return libs, err
}

func (o *OBJ) resolveMaterials() {
	for i := range o.Objects {
		obj := &o.Objects[i]
		obj.MaterialID = NoMaterial
		if obj.MaterialName != "" {
			obj.MaterialID = o.MaterialByName(obj.MaterialName)
		}
	}
}

// objectBuilder splits one decoded object into OBJObjects, starting a new
// one whenever the face material changes.
type objectBuilder struct {
	dec  *wavefront.Decoder
	name string
	out  []OBJObject

	cur *OBJObject
	// (position, texcoord, normal) -> vertex index within cur; -1 marks missing.
	remap map[[3]int]uint32
}

func flatten(dec *wavefront.Decoder, o *wavefront.Object) ([]OBJObject, error) {
	b := &objectBuilder{dec: dec, name: o.Name}
	for i := range o.Faces {
		f := &o.Faces[i]
		if b.cur == nil || f.Material != b.cur.MaterialName {
			b.finish()
			b.start(f.Material)
		}
		if err := b.face(f); err != nil {
			return nil, err
		}
	}
	b.finish()
	return b.out, nil
}

func (b *objectBuilder) start(material string) {
	b.cur = &OBJObject{Name: b.name, MaterialName: material, MaterialID: NoMaterial}
	b.remap = make(map[[3]int]uint32)
}

func (b *objectBuilder) finish() {
	if b.cur != nil && len(b.cur.Indices) > 0 {
		b.out = append(b.out, *b.cur)
	}
	b.cur = nil
}

// face fan-triangulates a polygon: (0,1,2), (0,2,3), ...
func (b *objectBuilder) face(f *wavefront.Face) error {
	if len(f.Vertices) < 3 {
		return fmt.Errorf("%w: %d vertices", ErrInvalidFace, len(f.Vertices))
	}

	poly := make([]uint32, len(f.Vertices))
	for i := range f.Vertices {
		idx, err := b.vertex(f, i)
		if err != nil {
			return err
		}
		poly[i] = idx
	}

	for i := 1; i+1 < len(poly); i++ {
		b.cur.Indices = append(b.cur.Indices, poly[0], poly[i], poly[i+1])
	}
	return nil
}

// vertex resolves the i-th corner of f to an index in the current object.
func (b *objectBuilder) vertex(f *wavefront.Face, i int) (uint32, error) {
	d := b.dec
	positions := len(d.Vertices) / 3
	v := f.Vertices[i]
	if v < 0 || v >= positions {
		return 0, fmt.Errorf("%w: position %d of %d", ErrIndexOutOfRange, v, positions)
	}

	key := [3]int{
		v,
		attrIndex(f.Uvs, i, len(d.Uvs)/2),
		attrIndex(f.Normals, i, len(d.Normals)/3),
	}
	if idx, ok := b.remap[key]; ok {
		return idx, nil
	}

	obj := b.cur
	idx := uint32(obj.VertexCount())
	obj.Positions = append(obj.Positions, d.Vertices[v*3], d.Vertices[v*3+1], d.Vertices[v*3+2])

	if vt := key[1]; vt >= 0 {
		obj.TexCoords = append(obj.TexCoords, d.Uvs[vt*2], d.Uvs[vt*2+1])
	} else {
		obj.TexCoords = append(obj.TexCoords, 0, 0)
	}

	if vn := key[2]; vn >= 0 {
		obj.Normals = append(obj.Normals, d.Normals[vn*3], d.Normals[vn*3+1], d.Normals[vn*3+2])
		obj.HasNormals = true
	} else {
		obj.Normals = append(obj.Normals, 0, 0, 0)
	}

	b.remap[key] = idx
	return idx, nil
}

// attrIndex returns the i-th texcoord or normal reference, or -1 when the
// corner has none. The decoder marks omitted references with an
// out-of-range index.
func attrIndex(refs []int, i, count int) int {
	if i >= len(refs) || refs[i] < 0 || refs[i] >= count {
		return -1
	}
	return refs[i]
}
