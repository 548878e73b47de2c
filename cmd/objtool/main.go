// objtool is a CLI utility for inspecting and subdividing Wavefront OBJ models.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/engine/camera"
	"github.com/Faultbox/gllessons/internal/engine/model"
	"github.com/Faultbox/gllessons/internal/logger"
	"github.com/Faultbox/gllessons/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "materials", "mtl":
		cmdMaterials(args)
	case "subdivide", "sub":
		cmdSubdivide(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ model utility

Usage:
  objtool <command> [options]

Commands:
  info <file.obj>                        Show objects, counts and bounds
  materials <file.obj>                   List materials and texture maps
  subdivide [-o out.obj] <file.obj> <n>  Apply n midpoint subdivision passes

Options:
  -v   Log loader details to stderr

Examples:
  objtool info assets/backpack/backpack.obj
  objtool materials assets/backpack/backpack.obj
  objtool subdivide -o smooth.obj cube.obj 2`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// initLogging enables debug logging to stderr when verbose is set.
func initLogging(verbose bool) {
	if !verbose {
		return
	}
	if err := logger.Init("debug", ""); err != nil {
		fail(err)
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool info <file.obj>")
		os.Exit(1)
	}
	initLogging(*verbose)
	defer logger.Sync()

	if err := runInfo(os.Stdout, fs.Arg(0)); err != nil {
		fail(err)
	}
}

func runInfo(w io.Writer, path string) error {
	obj, err := formats.LoadOBJ(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Material libraries: %d\n", len(obj.MaterialLibs))
	fmt.Fprintf(w, "Materials: %d\n", len(obj.Materials))
	fmt.Fprintf(w, "Objects: %d\n\n", len(obj.Objects))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OBJECT\tVERTICES\tTRIANGLES\tNORMALS\tMATERIAL")
	var totalVerts, totalTris int
	for i := range obj.Objects {
		o := &obj.Objects[i]
		normals := "file"
		if !o.HasNormals {
			normals = "generated"
		}
		mat := o.MaterialName
		if mat == "" {
			mat = "-"
		} else if o.MaterialID == formats.NoMaterial {
			mat += " (missing)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", o.Name, o.VertexCount(), o.TriangleCount(), normals, mat)
		totalVerts += o.VertexCount()
		totalTris += o.TriangleCount()
	}
	tw.Flush()
	fmt.Fprintf(w, "\nTotal: %d vertices, %d triangles\n", totalVerts, totalTris)

	// Bounds through a headless model load, which also checks textures.
	dev := &headlessDevice{}
	m := model.New(dev, dev)
	if err := m.LoadModel(path); err != nil {
		return err
	}
	defer m.Close()

	fmt.Fprintf(w, "Textures: %d\n", m.TextureCount())
	for _, h := range m.Textures() {
		rel, err := filepath.Rel(filepath.Dir(path), h.Path())
		if err != nil {
			rel = h.Path()
		}
		fmt.Fprintf(w, "  %s\n", filepath.ToSlash(rel))
	}
	if b, ok := m.Bounds(); ok {
		size := b.Size()
		pos := camera.FitToBounds(b.Min, b.Max, camera.DefaultSettings().FOV)
		fmt.Fprintf(w, "Bounds: min (%.3f, %.3f, %.3f) max (%.3f, %.3f, %.3f)\n",
			b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
		fmt.Fprintf(w, "Size: %.3f x %.3f x %.3f\n", size[0], size[1], size[2])
		fmt.Fprintf(w, "Suggested camera: position (%.3f, %.3f, %.3f), yaw -90, pitch 0\n", pos[0], pos[1], pos[2])
	}
	return nil
}

func cmdMaterials(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool materials <file.obj>")
		os.Exit(1)
	}
	if err := runMaterials(os.Stdout, args[0]); err != nil {
		fail(err)
	}
}

func runMaterials(w io.Writer, path string) error {
	obj, err := formats.LoadOBJ(path)
	if err != nil {
		return err
	}
	if len(obj.Materials) == 0 {
		fmt.Fprintln(w, "No materials")
		return nil
	}

	for _, m := range obj.Materials {
		fmt.Fprintf(w, "%s\n", m.Name)
		fmt.Fprintf(w, "  Kd %.3f %.3f %.3f  Ks %.3f %.3f %.3f  Ns %.1f  d %.2f\n",
			m.Diffuse[0], m.Diffuse[1], m.Diffuse[2],
			m.Specular[0], m.Specular[1], m.Specular[2],
			m.Shininess, m.Dissolve)

		maps := []struct{ key, path string }{
			{"map_Kd", m.DiffuseTexture},
			{"map_Ks", m.SpecularTexture},
			{model.EmissiveMapKey, m.TextureParam(model.EmissiveMapKey)},
			{"map_Bump", m.NormalTexture},
		}
		for _, mp := range maps {
			if mp.path != "" {
				fmt.Fprintf(w, "  %-8s %s\n", mp.key, mp.path)
			}
		}
	}
	return nil
}

func cmdSubdivide(args []string) {
	fs := flag.NewFlagSet("subdivide", flag.ExitOnError)
	out := fs.String("o", "", "write the subdivided model to this OBJ file")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: objtool subdivide [-o out.obj] <file.obj> <n>")
		os.Exit(1)
	}
	initLogging(*verbose)
	defer logger.Sync()

	n, err := strconv.Atoi(fs.Arg(1))
	if err != nil || n < 0 {
		fail(fmt.Errorf("invalid pass count %q", fs.Arg(1)))
	}

	if err := runSubdivide(os.Stdout, fs.Arg(0), n, *out); err != nil {
		fail(err)
	}
}

func runSubdivide(w io.Writer, path string, n int, out string) error {
	dev := &headlessDevice{}
	m := model.New(dev, dev)
	if err := m.LoadModel(path); err != nil {
		return err
	}
	defer m.Close()

	before := make([][2]int, len(m.Meshes()))
	for i, msh := range m.Meshes() {
		before[i][0], before[i][1] = msh.Stats()
	}

	m.SubdivideMeshes(n)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MESH\tVERTICES\tTRIANGLES")
	for i, msh := range m.Meshes() {
		verts, tris := msh.Stats()
		fmt.Fprintf(tw, "%d\t%d -> %d\t%d -> %d\n", i, before[i][0], verts, before[i][1], tris)
	}
	tw.Flush()

	if out == "" {
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := writeOBJ(f, m.Meshes()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("subdivided model written", zap.String("path", out), zap.Int("passes", n))
	fmt.Fprintf(w, "Wrote %s\n", out)
	return nil
}
