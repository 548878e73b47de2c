package texture

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/logger"
)

// Device uploads and frees GPU textures.
type Device interface {
	// UploadTexture creates a mipmapped 2D texture from img and returns its id.
	UploadTexture(img *image.RGBA) uint32
	DeleteTexture(id uint32)
}

// Handle is a reference-counted GPU texture. The GPU texture is deleted
// when the last reference is released.
type Handle struct {
	id   uint32
	path string
	refs int
	dev  Device
}

// NewHandle wraps an uploaded texture with one reference owned by the caller.
func NewHandle(dev Device, id uint32, path string) *Handle {
	return &Handle{id: id, path: path, refs: 1, dev: dev}
}

// ID returns the GPU texture name.
func (h *Handle) ID() uint32 { return h.id }

// Path returns the file the texture was loaded from.
func (h *Handle) Path() string { return h.path }

// Refs returns the number of live references.
func (h *Handle) Refs() int { return h.refs }

// Retain adds a reference and returns h.
func (h *Handle) Retain() *Handle {
	if h.refs == 0 {
		logger.Named("texture").Warn("retain on released texture", zap.String("path", h.path))
		return h
	}
	h.refs++
	return h
}

// Release drops a reference, deleting the GPU texture on the last one.
// Releasing an already deleted handle is a no-op.
func (h *Handle) Release() {
	if h.refs == 0 {
		return
	}
	h.refs--
	if h.refs > 0 {
		return
	}
	logger.Named("texture").Debug("deleting texture",
		zap.Uint32("id", h.id),
		zap.String("path", h.path))
	h.dev.DeleteTexture(h.id)
}

// Cache deduplicates textures by path. It holds one reference to each
// handle; Close releases them.
type Cache struct {
	dev     Device
	handles map[string]*Handle
	load    func(path string) (*image.RGBA, error)
}

// NewCache creates an empty cache uploading through dev.
func NewCache(dev Device) *Cache {
	return &Cache{
		dev:     dev,
		handles: make(map[string]*Handle),
		load:    Load,
	}
}

func cacheKey(path string) string {
	return filepath.Clean(path)
}

// Get returns the cached handle for path without taking a reference.
func (c *Cache) Get(path string) (*Handle, bool) {
	h, ok := c.handles[cacheKey(path)]
	return h, ok
}

// Load returns the handle for path, decoding and uploading it on a miss.
// The cache keeps its own reference; callers that store the handle must
// Retain it.
func (c *Cache) Load(path string) (*Handle, error) {
	key := cacheKey(path)
	if h, ok := c.handles[key]; ok {
		return h, nil
	}

	img, err := c.load(path)
	if err != nil {
		return nil, fmt.Errorf("loading texture: %w", err)
	}

	id := c.dev.UploadTexture(img)
	h := NewHandle(c.dev, id, key)
	c.handles[key] = h

	logger.Named("texture").Info("texture loaded",
		zap.String("path", key),
		zap.Uint32("id", id),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return h, nil
}

// Handles returns the cached handles ordered by path, without taking references.
func (c *Cache) Handles() []*Handle {
	out := make([]*Handle, 0, len(c.handles))
	for _, h := range c.handles {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

// Len returns the number of distinct textures in the cache.
func (c *Cache) Len() int {
	return len(c.handles)
}

// Close releases the cache's references. Textures still held elsewhere
// stay alive until those holders release them.
func (c *Cache) Close() {
	for key, h := range c.handles {
		h.Release()
		delete(c.handles, key)
	}
}
