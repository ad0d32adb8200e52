// Package geometry holds the fixed mesh drawn by the 3D pass: its vertex
// format, decoding from Wavefront OBJ and the device buffers it lives in.
package geometry

import (
	"unsafe"

	"github.com/xlab/linmath"
	vk "github.com/vulkan-go/vulkan"
)

// Vertex is the vertex layout the pipeline consumes.
type Vertex struct {
	Pos      linmath.Vec3
	Color    linmath.Vec3
	TexCoord linmath.Vec2
}

// Index is the type of the index buffer elements.
type Index = uint32

// IndexType is the Vulkan type matching Index.
const IndexType = vk.IndexTypeUint32

// VertexSize returns the stride of Vertex in bytes.
func VertexSize() uint32 {
	return uint32(unsafe.Sizeof(Vertex{}))
}

// BindingDescription describes the single vertex buffer binding.
func BindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    VertexSize(),
		InputRate: vk.VertexInputRateVertex,
	}
}

// AttributeDescriptions describes position, color and texture coordinate at
// locations 0, 1 and 2.
func AttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Pos)),
		},
		{
			Binding:  0,
			Location: 1,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Color)),
		},
		{
			Binding:  0,
			Location: 2,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.TexCoord)),
		},
	}
}
