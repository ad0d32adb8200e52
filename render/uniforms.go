package render

import (
	"math"
	"time"

	"github.com/xlab/linmath"
)

// Uniforms is the uniform buffer read by the vertex shader. The layout
// matches the shader's std140 block.
type Uniforms struct {
	Model linmath.Mat4x4
	View  linmath.Mat4x4
	Proj  linmath.Mat4x4
}

// fieldOfView is the vertical field of view in radians.
const fieldOfView = math.Pi / 4

// NewUniforms returns the matrices for a cube turning around the Z axis at
// one radian per second, seen from above one corner.
func NewUniforms(elapsed time.Duration, aspect float32) Uniforms {
	var u Uniforms

	u.Model.Identity()
	u.Model.RotateZ(&u.Model, float32(elapsed.Seconds()))
	u.View.LookAt(
		&linmath.Vec3{2, 2, 2},
		&linmath.Vec3{0, 0, 0},
		&linmath.Vec3{0, 0, 1},
	)
	u.Proj.Perspective(fieldOfView, aspect, 0.1, 10)

	// Vulkan's clip space Y points down.
	u.Proj[1][1] *= -1

	return u
}
