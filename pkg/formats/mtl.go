// Wavefront MTL material libraries. Colours, scalars and plain diffuse maps
// come from g3n's decoder; the texture maps it does not model are read by a
// supplementary scan.
package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	wavefront "github.com/g3n/engine/loader/obj"
	"github.com/g3n/engine/math32"
)

// MTLMaterial is one newmtl block of a material library.
type MTLMaterial struct {
	Name string

	Ambient  [3]float32 // Ka
	Diffuse  [3]float32 // Kd
	Specular [3]float32 // Ks
	Emissive [3]float32 // Ke

	Shininess      float32 // Ns, 0-1000
	OpticalDensity float32 // Ni
	Dissolve       float32 // d (1 = opaque)
	Illum          int

	AmbientTexture   string // map_Ka
	DiffuseTexture   string // map_Kd
	SpecularTexture  string // map_Ks
	ShininessTexture string // map_Ns
	DissolveTexture  string // map_d
	NormalTexture    string // map_Bump, bump, norm

	// Unknown holds every statement this parser does not model, keyed by
	// its keyword (e.g. "map_Ke" emission maps written by Blender).
	Unknown map[string]string
}

// LoadMTL reads and parses a material library file.
func LoadMTL(path string) ([]MTLMaterial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mats, err := ParseMTL(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return mats, nil
}

// ParseMTL parses material definitions from r, in file order.
func ParseMTL(r io.Reader) ([]MTLMaterial, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	extras, err := scanMTL(data)
	if err != nil {
		return nil, err
	}

	dec, err := wavefront.DecodeReader(strings.NewReader(""), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatement, err)
	}

	mats := make([]MTLMaterial, len(extras))
	for i := range extras {
		mats[i] = extras[i].material(dec.Materials[extras[i].name])
	}
	return mats, nil
}

// mtlExtras holds what the decoder drops for one newmtl block.
type mtlExtras struct {
	name string
	maps map[string]string // map keyword -> path

	hasDissolve  bool
	hasTr        bool
	transparency float32

	unknown map[string]string
}

// Statements the decoder reads itself.
var decodedKeys = map[string]bool{
	"Ka": true, "Kd": true, "Ks": true, "Ke": true,
	"Ns": true, "Ni": true, "illum": true,
}

// scanMTL collects material order, texture maps and unknown statements.
// It also rejects statements outside a newmtl block.
func scanMTL(data []byte) ([]mtlExtras, error) {
	var out []mtlExtras
	err := scanStatements(bytes.NewReader(data), func(key string, args []string) error {
		if key == "newmtl" {
			if len(args) == 0 {
				return fmt.Errorf("%w: newmtl without name", ErrInvalidStatement)
			}
			out = append(out, mtlExtras{
				name:    args[0],
				maps:    make(map[string]string),
				unknown: make(map[string]string),
			})
			return nil
		}
		if len(out) == 0 {
			return fmt.Errorf("%w: %s before newmtl", ErrInvalidStatement, key)
		}
		cur := &out[len(out)-1]

		switch key {
		case "d":
			cur.hasDissolve = true
		case "Tr":
			tr, err := parseScalar(args)
			if err != nil {
				return fmt.Errorf("%w: Tr: %v", ErrInvalidStatement, err)
			}
			cur.transparency, cur.hasTr = tr, true
		case "map_Kd":
			// The decoder keeps only the first token.
			if len(args) > 1 {
				cur.maps[key] = mapPath(args)
			}
		case "map_Ka", "map_Ks", "map_Ns", "map_d":
			cur.maps[key] = mapPath(args)
		case "map_Bump", "map_bump", "bump", "norm":
			cur.maps["map_Bump"] = mapPath(args)
		default:
			if !decodedKeys[key] {
				cur.unknown[key] = strings.Join(args, " ")
			}
		}
		return nil
	})
	return out, err
}

// material merges decoded values with the scanned extras. m is nil when
// the decoder kept nothing for this name.
func (x *mtlExtras) material(m *wavefront.Material) MTLMaterial {
	out := MTLMaterial{
		Name:             x.name,
		Dissolve:         1,
		AmbientTexture:   x.maps["map_Ka"],
		SpecularTexture:  x.maps["map_Ks"],
		ShininessTexture: x.maps["map_Ns"],
		DissolveTexture:  x.maps["map_d"],
		NormalTexture:    x.maps["map_Bump"],
		Unknown:          x.unknown,
	}
	if m != nil {
		out.Ambient = rgb(m.Ambient)
		out.Diffuse = rgb(m.Diffuse)
		out.Specular = rgb(m.Specular)
		out.Emissive = rgb(m.Emissive)
		out.Shininess = m.Shininess
		out.OpticalDensity = m.Refraction
		out.Illum = m.Illum
		out.DiffuseTexture = m.MapKd
		if x.hasDissolve {
			out.Dissolve = m.Opacity
		}
	}
	if p, ok := x.maps["map_Kd"]; ok {
		out.DiffuseTexture = p
	}
	if !x.hasDissolve && x.hasTr {
		out.Dissolve = 1 - x.transparency
	}
	return out
}

func rgb(c math32.Color) [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// TextureParam returns a texture path stored under a non-standard key,
// stripping map options the same way as the standard map_* statements.
func (m *MTLMaterial) TextureParam(key string) string {
	v, ok := m.Unknown[key]
	if !ok {
		return ""
	}
	return mapPath(strings.Fields(v))
}

func parseScalar(args []string) (float32, error) {
	if len(args) == 0 {
		return 0, errors.New("missing value")
	}
	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

// mapPath drops texture map options ("-bm 0.5", "-s 1 1 1", "-clamp on")
// and returns the remaining tokens as the file path.
func mapPath(args []string) string {
	i := 0
	for i < len(args) && strings.HasPrefix(args[i], "-") {
		opt := args[i]
		i++
		switch opt {
		case "-imfchan", "-type":
			i++
			continue
		}
		for i < len(args) && isOptionValue(args[i]) {
			i++
		}
	}
	if i >= len(args) {
		return ""
	}
	return strings.Join(args[i:], " ")
}

func isOptionValue(s string) bool {
	if s == "on" || s == "off" {
		return true
	}
	_, err := strconv.ParseFloat(s, 32)
	return err == nil
}
