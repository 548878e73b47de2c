package shaders

import (
	"strings"
	"testing"
)

func TestEmbeddedSources(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"vertex", ModelVert, []string{"#version 410 core", "camMatrix", ModelUniform}},
		{"fragment", ModelFrag, []string{
			"#version 410 core",
			"texture_diffuse0", "texture_specular0", "texture_emissive0",
			"use_texture_diff", "fallback_color", "shininess",
			LightPosUniform, ViewPosUniform, LightColorUniform,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, w := range tt.want {
				if !strings.Contains(tt.src, w) {
					t.Errorf("%s shader does not mention %q", tt.name, w)
				}
			}
		})
	}
}
