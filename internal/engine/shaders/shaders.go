// Package shaders embeds the viewer's default GLSL sources.
package shaders

import _ "embed"

// Uniforms set by the viewer besides the camera and material ones.
const (
	ModelUniform      = "model"
	LightPosUniform   = "lightPos"
	ViewPosUniform    = "viewPos"
	LightColorUniform = "lightColor"
)

//go:embed model.vert
var ModelVert string

//go:embed model.frag
var ModelFrag string
