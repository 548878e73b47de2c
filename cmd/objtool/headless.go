package main

import (
	"bufio"
	"fmt"
	"image"
	"io"

	"github.com/Faultbox/gllessons/internal/engine/mesh"
)

// headlessDevice satisfies mesh.Device and texture.Device without a GPU,
// handing out fake object names.
type headlessDevice struct {
	next uint32
}

func (d *headlessDevice) CreateBuffers(vertices []mesh.Vertex, indices []uint32) mesh.Buffers {
	d.next++
	return mesh.Buffers{VAO: d.next, VBO: d.next, EBO: d.next}
}

func (d *headlessDevice) DeleteBuffers(mesh.Buffers)        {}
func (d *headlessDevice) BindTexture(uint32, uint32)        {}
func (d *headlessDevice) DrawTriangles(mesh.Buffers, int32) {}
func (d *headlessDevice) DeleteTexture(uint32)              {}

func (d *headlessDevice) UploadTexture(*image.RGBA) uint32 {
	d.next++
	return d.next
}

// writeOBJ writes meshes as one OBJ file with an object per mesh.
// Materials are not exported.
func writeOBJ(w io.Writer, meshes []*mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# written by objtool")

	base := 1
	for i, m := range meshes {
		fmt.Fprintf(bw, "o mesh%d\n", i)
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
		}
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "vt %g %g\n", v.TexCoords[0], v.TexCoords[1])
		}
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
		}
		for t := 0; t+2 < len(m.Indices); t += 3 {
			a := int(m.Indices[t]) + base
			b := int(m.Indices[t+1]) + base
			c := int(m.Indices[t+2]) + base
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
		base += len(m.Vertices)
	}
	return bw.Flush()
}
