package mesh

import (
	"fmt"

	"github.com/Faultbox/gllessons/internal/engine/texture"
)

// Kind identifies what a material feeds in the shader.
type Kind int

const (
	KindDiffuse Kind = iota
	KindSpecular
	KindEmissive
	KindShininess
)

// String returns the kind's uniform stem.
func (k Kind) String() string {
	switch k {
	case KindDiffuse:
		return "texture_diffuse"
	case KindSpecular:
		return "texture_specular"
	case KindEmissive:
		return "texture_emissive"
	case KindShininess:
		return "shininess"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsTextureKind reports whether k is bound as a sampler.
func (k Kind) IsTextureKind() bool {
	return k == KindDiffuse || k == KindSpecular || k == KindEmissive
}

// Material is either a texture binding (diffuse, specular, emissive) or a
// scalar property (shininess).
type Material struct {
	Kind Kind

	// Texture kinds.
	Texture *texture.Handle
	Path    string // As referenced by the material file

	// Property kinds.
	Value float32
}

// TextureMaterial returns a texture binding of the given kind.
func TextureMaterial(h *texture.Handle, path string, kind Kind) Material {
	return Material{Kind: kind, Texture: h, Path: path}
}

// PropertyMaterial returns a scalar property of the given kind.
func PropertyMaterial(value float32, kind Kind) Material {
	return Material{Kind: kind, Value: value}
}

// IsTexture reports whether m binds a texture.
func (m Material) IsTexture() bool {
	return m.Kind.IsTextureKind() && m.Texture != nil
}

// IsPathEq reports whether m is a texture loaded from path.
// Properties never match.
func (m Material) IsPathEq(path string) bool {
	return m.IsTexture() && m.Path == path
}

// UniformName returns the shader uniform for m. Textures are numbered per
// kind ("material.texture_diffuse1" is a mesh's second diffuse texture);
// properties ignore ordinal.
func (m Material) UniformName(ordinal int) string {
	if m.Kind.IsTextureKind() {
		return fmt.Sprintf("material.%s%d", m.Kind, ordinal)
	}
	return "material." + m.Kind.String()
}
