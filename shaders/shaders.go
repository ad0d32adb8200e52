// Package shaders holds the GLSL sources of the graphics pipeline. Run `go
// generate` with glslc on the PATH to compile them next to the sources.
package shaders

import (
	"fmt"
	"io/fs"

	"vulkan-sprites/assets"
	"vulkan-sprites/pipeline"
)

//go:generate ./compile.sh

// Names of the compiled modules.
const (
	Vertex   = "vert.spv"
	Fragment = "frag.spv"
)

// Load reads both compiled modules from fsys.
func Load(fsys fs.FS) (pipeline.Shaders, error) {
	vert, err := assets.LoadShaderBytecode(fsys, Vertex)
	if err != nil {
		return pipeline.Shaders{}, fmt.Errorf("vertex shader: %w", err)
	}

	frag, err := assets.LoadShaderBytecode(fsys, Fragment)
	if err != nil {
		return pipeline.Shaders{}, fmt.Errorf("fragment shader: %w", err)
	}

	return pipeline.Shaders{Vertex: vert, Fragment: frag}, nil
}
