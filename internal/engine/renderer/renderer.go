// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/engine/mesh"
	"github.com/Faultbox/gllessons/internal/engine/texture"
	"github.com/Faultbox/gllessons/internal/logger"
)

var (
	_ mesh.Device    = (*Renderer)(nil)
	_ texture.Device = (*Renderer)(nil)
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	Wireframe  bool
}

// Renderer owns global GL state and creates GPU resources for meshes and
// textures. It implements mesh.Device and texture.Device.
type Renderer struct {
	config Config
	log    *zap.Logger

	// Live objects, reported on Close.
	buffers  int
	textures int
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	r.SetWireframe(cfg.Wireframe)

	return r, nil
}

// Close reports GPU objects that were never freed.
func (r *Renderer) Close() {
	r.log.Info("closing renderer",
		zap.Int("leaked_buffers", r.buffers),
		zap.Int("leaked_textures", r.textures),
	)
}

// Resize handles window resize. Zero sizes from minimised windows are ignored.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetWireframe switches between filled and line polygon rasterization.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Wireframe reports whether wireframe mode is on.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// CreateBuffers uploads an interleaved vertex buffer and an index buffer.
func (r *Renderer) CreateBuffers(vertices []mesh.Vertex, indices []uint32) mesh.Buffers {
	var b mesh.Buffers
	gl.GenVertexArrays(1, &b.VAO)
	gl.BindVertexArray(b.VAO)

	gl.GenBuffers(1, &b.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*mesh.VertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	}

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(mesh.VertexSize), uintptr(mesh.PositionOffset))
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(mesh.VertexSize), uintptr(mesh.NormalOffset))
	gl.EnableVertexAttribArray(1)
	// TexCoords
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(mesh.VertexSize), uintptr(mesh.TexCoordsOffset))
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &b.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	r.buffers++
	return b
}

// DeleteBuffers frees a mesh's GPU buffers.
func (r *Renderer) DeleteBuffers(b mesh.Buffers) {
	gl.DeleteBuffers(1, &b.EBO)
	gl.DeleteBuffers(1, &b.VBO)
	gl.DeleteVertexArrays(1, &b.VAO)
	r.buffers--
}

// BindTexture binds a 2D texture to a texture unit.
func (r *Renderer) BindTexture(unit uint32, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, id)
}

// DrawTriangles draws indexCount indices from b.
func (r *Renderer) DrawTriangles(b mesh.Buffers, indexCount int32) {
	gl.BindVertexArray(b.VAO)
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

// UploadTexture creates a mipmapped RGBA texture with nearest filtering
// and repeat wrapping.
func (r *Renderer) UploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	var pix unsafe.Pointer
	if len(img.Pix) > 0 {
		pix = unsafe.Pointer(&img.Pix[0])
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, pix)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.textures++
	r.log.Debug("texture uploaded",
		zap.Uint32("texture", texID),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return texID
}

// DeleteTexture frees a texture.
func (r *Renderer) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
	r.textures--
}

// ReadPixels reads the current framebuffer as tightly packed RGBA rows,
// bottom row first. It returns the buffer and its size.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
