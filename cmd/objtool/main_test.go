package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/gllessons/pkg/formats"
)

const testMTL = `newmtl Glow
Kd 1 0.5 0.25
Ns 250
map_Ke glow.tga
`

const testOBJ = `mtllib test.mtl
v 0 0 0
v 2 0 0
v 2 1 0
v 0 1 0
o Quad
usemtl Glow
f 1 2 3 4
`

// writeTGA writes a 1x1 uncompressed 32-bit TGA.
func writeTGA(t *testing.T, path string) {
	t.Helper()
	header := make([]byte, 18)
	header[2] = 2  // uncompressed true-color
	header[12] = 1 // width
	header[14] = 1 // height
	header[16] = 32
	data := append(header, 0, 0, 255, 255)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.mtl"), []byte(testMTL), 0o644); err != nil {
		t.Fatal(err)
	}
	writeTGA(t, filepath.Join(dir, "glow.tga"))
	path := filepath.Join(dir, "test.obj")
	if err := os.WriteFile(path, []byte(testOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunInfo(t *testing.T) {
	var out bytes.Buffer
	if err := runInfo(&out, setup(t)); err != nil {
		t.Fatalf("runInfo() error = %v", err)
	}

	for _, want := range []string{
		"Objects: 1",
		"Quad",
		"generated",
		"Total: 4 vertices, 2 triangles",
		"Textures: 1",
		"  glow.tga",
		"max (2.000, 1.000, 0.000)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunMaterials(t *testing.T) {
	var out bytes.Buffer
	if err := runMaterials(&out, setup(t)); err != nil {
		t.Fatalf("runMaterials() error = %v", err)
	}
	for _, want := range []string{"Glow", "Kd 1.000 0.500 0.250", "Ns 250.0", "map_Ke", "glow.tga"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunSubdivide_WritesOBJ(t *testing.T) {
	path := setup(t)
	outPath := filepath.Join(filepath.Dir(path), "out.obj")

	var out bytes.Buffer
	if err := runSubdivide(&out, path, 1, outPath); err != nil {
		t.Fatalf("runSubdivide() error = %v", err)
	}
	if !strings.Contains(out.String(), "2 -> 8") {
		t.Errorf("expected triangle count 2 -> 8 in output:\n%s", out.String())
	}

	obj, err := formats.LoadOBJ(outPath)
	if err != nil {
		t.Fatalf("reading written OBJ: %v", err)
	}
	if len(obj.Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(obj.Objects))
	}
	o := obj.Objects[0]
	if o.TriangleCount() != 8 {
		t.Errorf("TriangleCount() = %d, want 8", o.TriangleCount())
	}
	if o.VertexCount() != 9 {
		t.Errorf("VertexCount() = %d, want 9", o.VertexCount())
	}
	if !o.HasNormals {
		t.Error("expected written normals")
	}
}

func TestRunInfo_MissingFile(t *testing.T) {
	var out bytes.Buffer
	if err := runInfo(&out, filepath.Join(t.TempDir(), "none.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
