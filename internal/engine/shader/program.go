package shader

import (
	"fmt"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/logger"
)

// Program is a linked shader program. Uniform locations are looked up once
// per name and cached until the program is reloaded.
type Program struct {
	id        uint32
	locations map[string]int32

	// Source files when loaded with Load.
	vertPath string
	fragPath string
}

// New compiles and links a program from GLSL sources.
func New(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	logger.Named("shader").Debug("program created", zap.Uint32("program", id))
	return &Program{id: id, locations: make(map[string]int32)}, nil
}

// Load compiles a program from a vertex and a fragment shader file.
func Load(vertPath, fragPath string) (*Program, error) {
	vs, fs, err := readSources(vertPath, fragPath)
	if err != nil {
		return nil, err
	}
	p, err := New(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("program %s + %s: %w", vertPath, fragPath, err)
	}
	p.vertPath, p.fragPath = vertPath, fragPath
	return p, nil
}

func readSources(vertPath, fragPath string) (string, string, error) {
	vs, err := os.ReadFile(vertPath)
	if err != nil {
		return "", "", fmt.Errorf("reading vertex shader: %w", err)
	}
	fs, err := os.ReadFile(fragPath)
	if err != nil {
		return "", "", fmt.Errorf("reading fragment shader: %w", err)
	}
	return string(vs), string(fs), nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

// Paths returns the source files of a program created with Load.
func (p *Program) Paths() (vert, frag string) { return p.vertPath, p.fragPath }

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Delete frees the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
	clear(p.locations)
}

// Reload replaces the program with one built from new sources. On error
// the current program stays in place and the error is returned.
func (p *Program) Reload(vertexSrc, fragmentSrc string) error {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return err
	}
	old := p.id
	p.Delete()
	p.id = id
	logger.Named("shader").Info("program reloaded",
		zap.Uint32("old", old),
		zap.Uint32("program", id))
	return nil
}

// ReloadFiles re-reads the files given to Load and reloads the program.
func (p *Program) ReloadFiles() error {
	if p.vertPath == "" || p.fragPath == "" {
		return fmt.Errorf("program %d was not loaded from files", p.id)
	}
	vs, fs, err := readSources(p.vertPath, p.fragPath)
	if err != nil {
		return err
	}
	if err := p.Reload(vs, fs); err != nil {
		return fmt.Errorf("program %s + %s: %w", p.vertPath, p.fragPath, err)
	}
	return nil
}

// location returns the cached location for name. Unknown or optimized-out
// uniforms resolve to -1, which GL ignores on upload.
func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := GetUniform(p.id, name)
	if loc < 0 {
		logger.Named("shader").Debug("uniform not active",
			zap.Uint32("program", p.id),
			zap.String("uniform", name))
	}
	p.locations[name] = loc
	return loc
}

func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.location(name), v)
}

func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.location(name), v)
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	gl.Uniform2fv(p.location(name), 1, &v[0])
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3fv(p.location(name), 1, &v[0])
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	gl.Uniform4fv(p.location(name), 1, &v[0])
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, &m[0])
}
